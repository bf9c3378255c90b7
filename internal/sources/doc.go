// Package sources holds the built-in completion sources. Each sub-package
// implements driven.Source for one kind of candidate (buffer words,
// filesystem entries, a static word list, a diagnostic counter).
//
// Sources are registered with the Completor at startup.
package sources
