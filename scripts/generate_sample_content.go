//go:build ignore

// generate_sample_content.go writes a small example content tree for
// trying out the renderer without real course material.
// Usage: go run scripts/generate_sample_content.go [dir]
//
// Creates (default dir "content"):
//
//	content/licenses/cc-by-sa-40/info.yml
//	content/lessons/beginners/{install,loops}/...
//	content/courses/sample/info.yml
//	content/runs/2025/sample-run/info.yml
//
// Then: naucse -build -content content
package main

import (
	"fmt"
	"os"
	"path/filepath"
)

var files = map[string]string{
	"licenses/cc-by-sa-40/info.yml": `title: CC BY-SA 4.0
url: https://creativecommons.org/licenses/by-sa/4.0/
`,

	"lessons/beginners/install/info.yml": `title: Installation
license: cc-by-sa-40
`,
	"lessons/beginners/install/index.md": `# Installation

Install Python 3 from your package manager.

> [note]
> On Windows, use the official installer instead.
`,

	"lessons/beginners/loops/info.yml": `title: Loops
license: cc-by-sa-40
pages:
  - slug: index
  - slug: exercises
    subtitle: Exercises
  - slug: solution-1
    solution: 1
`,
	"lessons/beginners/loops/index.md": `# Loops

` + "```python\nfor i in range(3):\n    print(i)\n```\n",
	"lessons/beginners/loops/exercises.md":  "Write a loop that counts down from 3.\n",
	"lessons/beginners/loops/solution-1.md": "```python\nfor i in range(3, 0, -1):\n    print(i)\n```\n",

	"courses/sample/info.yml": `title: Sample Course
description: A tiny self-study course for trying out the renderer.
sessions:
  - slug: first-steps
    title: First steps
    materials:
      - lesson: beginners/install
        title: Installation
      - lesson: beginners/loops
        title: Loops
`,

	"runs/2025/sample-run/info.yml": `title: Sample Course (Spring 2025)
derives: courses/sample
default_time:
  start: "18:00"
  end: "20:00"
sessions:
  - slug: first-steps
    title: First steps
    date: 2025-03-03
    materials:
      - lesson: beginners/install
        title: Installation
      - lesson: beginners/loops
        title: Loops
      - title: Python documentation
        url: https://docs.python.org/
        type: link
`,
}

func main() {
	dir := "content"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create %s: %v\n", filepath.Dir(path), err)
			os.Exit(1)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", path, err)
			os.Exit(1)
		}
	}
	fmt.Printf("Sample content written to %s (%d files)\n", dir, len(files))
	fmt.Println("Render it with: naucse -build -content " + dir)
}
