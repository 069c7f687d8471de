package ui

import (
	"sort"
	"strings"
)

// FileNode is a directory or file in the workspace tree.
type FileNode struct {
	Name     string
	Path     string
	IsDir    bool
	Children []*FileNode
}

// FileRow is one visible line of a flattened tree.
type FileRow struct {
	Depth int
	Node  *FileNode
}

// BuildFileTree turns the flat path list returned by the backend into a
// tree. Directories sort before files, both alphabetically.
func BuildFileTree(paths []string) *FileNode {
	root := &FileNode{IsDir: true}
	dirs := map[string]*FileNode{"": root}

	for _, p := range paths {
		p = strings.Trim(p, "/")
		if p == "" {
			continue
		}
		parts := strings.Split(p, "/")

		parent := root
		for i, part := range parts {
			if part == "" {
				continue
			}
			full := strings.Join(parts[:i+1], "/")
			last := i == len(parts)-1

			if last {
				if _, isDir := dirs[full]; !isDir {
					parent.Children = append(parent.Children, &FileNode{Name: part, Path: full})
				}
				break
			}

			dir, ok := dirs[full]
			if !ok {
				dir = &FileNode{Name: part, Path: full, IsDir: true}
				dirs[full] = dir
				parent.Children = append(parent.Children, dir)
			}
			parent = dir
		}
	}

	sortTree(root)
	return root
}

func sortTree(n *FileNode) {
	sort.SliceStable(n.Children, func(i, j int) bool {
		a, b := n.Children[i], n.Children[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		return a.Name < b.Name
	})
	for _, c := range n.Children {
		if c.IsDir {
			sortTree(c)
		}
	}
}

// Flatten lists the tree depth first, excluding the root.
func Flatten(root *FileNode) []FileRow {
	var rows []FileRow
	var walk func(n *FileNode, depth int)
	walk = func(n *FileNode, depth int) {
		for _, c := range n.Children {
			rows = append(rows, FileRow{Depth: depth, Node: c})
			if c.IsDir {
				walk(c, depth+1)
			}
		}
	}
	walk(root, 0)
	return rows
}
