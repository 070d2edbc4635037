// Package catalog provides a SkillStore backed by a JSON catalog file.
//
// The file holds an array of skills. It is read once at open, rewritten
// atomically after every mutation, and can be watched for edits made by
// other processes or by hand.
package catalog
