package git

import (
	"fmt"
	"slices"
	"strings"

	fdiff "github.com/go-git/go-git/v5/plumbing/format/diff"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/pmezard/go-difflib/difflib"
)

// newFileDiff classifies a change by which sides exist.
func newFileDiff(oldPath, newPath string) FileDiff {
	f := FileDiff{OldPath: oldPath, NewPath: newPath, Status: FileModified}
	switch {
	case oldPath == "":
		f.Status = FileAdded
	case newPath == "":
		f.Status = FileDeleted
	case oldPath != newPath:
		f.Status = FileRenamed
	}
	return f
}

// addHunks turns grouped edit operations over a and b into hunks.
func (f *FileDiff) addHunks(a, b []string, groups [][]difflib.OpCode) {
	if len(groups) == 0 {
		return
	}
	f.Headers = []Line{
		{Kind: LineFileHeader, Content: "--- " + sidePath("a/", f.OldPath)},
		{Kind: LineFileHeader, Content: "+++ " + sidePath("b/", f.NewPath)},
	}
	for _, group := range groups {
		h := Hunk{}
		first, last := group[0], group[len(group)-1]
		h.OldStart, h.OldLines = hunkRange(first.I1, last.I2)
		h.NewStart, h.NewLines = hunkRange(first.J1, last.J2)
		h.Header = fmt.Sprintf("@@ -%s +%s @@", formatRange(h.OldStart, h.OldLines), formatRange(h.NewStart, h.NewLines))
		for _, op := range group {
			if op.Tag == 'e' {
				for k := range op.I2 - op.I1 {
					h.Lines = append(h.Lines, Line{
						Kind:    LineContext,
						Content: a[op.I1+k],
						OldNo:   op.I1 + k + 1,
						NewNo:   op.J1 + k + 1,
					})
				}
				continue
			}
			if op.Tag == 'r' || op.Tag == 'd' {
				for i := op.I1; i < op.I2; i++ {
					h.Lines = append(h.Lines, Line{Kind: LineDeletion, Content: a[i], OldNo: i + 1})
					f.Deletions++
				}
			}
			if op.Tag == 'r' || op.Tag == 'i' {
				for j := op.J1; j < op.J2; j++ {
					h.Lines = append(h.Lines, Line{Kind: LineAddition, Content: b[j], NewNo: j + 1})
					f.Additions++
				}
			}
		}
		f.Hunks = append(f.Hunks, h)
	}
}

func sidePath(prefix, path string) string {
	if path == "" {
		return "/dev/null"
	}
	return prefix + path
}

// hunkRange converts a half-open, 0-based line range to git's start/count.
// An empty range starts at the line before it.
func hunkRange(lo, hi int) (start, count int) {
	count = hi - lo
	if count == 0 {
		return lo, 0
	}
	return lo + 1, count
}

func formatRange(start, count int) string {
	if count == 1 {
		return fmt.Sprint(start)
	}
	return fmt.Sprintf("%d,%d", start, count)
}

// splitLines breaks file content into lines without their terminators.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.ToValidUTF8(content, "�")
	return strings.Split(strings.TrimSuffix(content, "\n"), "\n")
}

// chunkOpCodes lays go-git's line chunks out as the old and new sequences
// plus the edit script between them.
func chunkOpCodes(chunks []fdiff.Chunk) (a, b []string, codes []difflib.OpCode) {
	for _, c := range chunks {
		lines := splitLines(c.Content())
		if len(lines) == 0 {
			continue
		}
		i, j := len(a), len(b)
		switch c.Type() {
		case fdiff.Equal:
			a = append(a, lines...)
			b = append(b, lines...)
			codes = append(codes, difflib.OpCode{Tag: 'e', I1: i, I2: len(a), J1: j, J2: len(b)})
		case fdiff.Delete:
			a = append(a, lines...)
			codes = append(codes, difflib.OpCode{Tag: 'd', I1: i, I2: len(a), J1: j, J2: j})
		case fdiff.Add:
			b = append(b, lines...)
			codes = append(codes, difflib.OpCode{Tag: 'i', I1: i, I2: i, J1: j, J2: len(b)})
		}
	}
	return a, b, codes
}

// groupOpCodes splits an edit script into hunks with n lines of context,
// matching SequenceMatcher.GetGroupedOpCodes for scripts difflib did not
// compute itself.
func groupOpCodes(codes []difflib.OpCode, n int) [][]difflib.OpCode {
	if len(codes) == 0 {
		return nil
	}
	codes = slices.Clone(codes)
	if c := codes[0]; c.Tag == 'e' {
		codes[0] = difflib.OpCode{Tag: 'e', I1: max(c.I1, c.I2-n), I2: c.I2, J1: max(c.J1, c.J2-n), J2: c.J2}
	}
	if c := codes[len(codes)-1]; c.Tag == 'e' {
		codes[len(codes)-1] = difflib.OpCode{Tag: 'e', I1: c.I1, I2: min(c.I2, c.I1+n), J1: c.J1, J2: min(c.J2, c.J1+n)}
	}
	var groups [][]difflib.OpCode
	var group []difflib.OpCode
	for _, c := range codes {
		if c.Tag == 'e' && c.I2-c.I1 > 2*n {
			group = append(group, difflib.OpCode{Tag: 'e', I1: c.I1, I2: min(c.I2, c.I1+n), J1: c.J1, J2: min(c.J2, c.J1+n)})
			groups = append(groups, group)
			group = nil
			c.I1, c.J1 = max(c.I1, c.I2-n), max(c.J1, c.J2-n)
		}
		group = append(group, c)
	}
	if len(group) > 0 && !(len(group) == 1 && group[0].Tag == 'e') {
		groups = append(groups, group)
	}
	return groups
}

// commitFileDiff builds one file of a commit diff from go-git's patch.
func commitFileDiff(change *object.Change) (FileDiff, error) {
	f := newFileDiff(change.From.Name, change.To.Name)
	from, to, err := change.Files()
	if err != nil {
		return f, err
	}
	if f.Binary, err = anyBinary(from, to); err != nil || f.Binary {
		return f, err
	}
	patch, err := change.Patch()
	if err != nil {
		return f, err
	}
	for _, fp := range patch.FilePatches() {
		a, b, codes := chunkOpCodes(fp.Chunks())
		f.addHunks(a, b, groupOpCodes(codes, fdiff.DefaultContextLines))
	}
	return f, nil
}

// localFileDiff builds one file of a staged or unstaged diff with difflib.
func localFileDiff(path string, from, to *object.File) (FileDiff, error) {
	oldPath, newPath := path, path
	if from == nil {
		oldPath = ""
	}
	if to == nil {
		newPath = ""
	}
	f := newFileDiff(oldPath, newPath)
	var err error
	if f.Binary, err = anyBinary(from, to); err != nil || f.Binary {
		return f, err
	}
	a, err := fileLines(from)
	if err != nil {
		return f, err
	}
	b, err := fileLines(to)
	if err != nil {
		return f, err
	}
	m := difflib.NewMatcher(a, b)
	f.addHunks(a, b, m.GetGroupedOpCodes(fdiff.DefaultContextLines))
	return f, nil
}

func anyBinary(files ...*object.File) (bool, error) {
	for _, f := range files {
		if f == nil {
			continue
		}
		bin, err := f.IsBinary()
		if err != nil {
			return false, err
		}
		if bin {
			return true, nil
		}
	}
	return false, nil
}

func fileLines(f *object.File) ([]string, error) {
	if f == nil {
		return nil, nil
	}
	content, err := f.Contents()
	if err != nil {
		return nil, err
	}
	return splitLines(content), nil
}
