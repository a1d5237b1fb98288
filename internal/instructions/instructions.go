// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package instructions holds the fixed "how to run" guide served to clients.
// The guide is a static template, never derived from a model.
package instructions

// Text is the usage guide in markdown, rendered by clients.
const Text = `# Running Your Animation

The generated code targets [Manim Community](https://www.manim.community/) v0.18.0 or later.

## 1. Install Manim

` + "```bash" + `
pip install manim
` + "```" + `

LaTeX is required for mathematical text. Install a distribution such as
MiKTeX (Windows) or TeX Live (Linux/macOS) if you don't have one.

## 2. Save the code

Copy the generated code into a file, for example ` + "`scene.py`" + `.

## 3. Render

` + "```bash" + `
manim -pql scene.py
` + "```" + `

- ` + "`-p`" + ` previews the video when rendering finishes.
- ` + "`-ql`" + ` renders at low quality for fast iteration; use ` + "`-qh`" + ` for final quality.

The rendered video is written under ` + "`media/videos/`" + `.

## Troubleshooting

- **LaTeX errors**: make sure a LaTeX distribution is installed and on PATH.
- **No scene found**: pass the scene class name explicitly:
  ` + "`manim -pql scene.py YourAnimation`" + `.
- **Code starts with an error comment**: generation failed; try the
  "improve prompt" action and generate again.
`
