// Package github discovers skills published in GitHub repositories.
//
// A skill is a directory containing a SKILL.md file whose YAML front matter
// carries the display name, an optional description and technology tags:
//
//	---
//	name: React Hooks Guide
//	description: Patterns for custom hooks
//	technologies: [react, typescript]
//	---
//
// The directory name becomes the skill ID and "owner/repo" the source.
package github
