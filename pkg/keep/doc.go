// Package keep computes which classes survive when keep rules are present.
//
// Every class in the archive contributes a node to a reference Graph. The
// edges are the class names a Collector sees while walking the class's
// reference sites: its super types, field and method descriptors, generic
// signatures, annotation values, and, when the Policy asks for it, string
// constants shaped like a dotted class name. Classes under the ignored
// prefixes (java/ and javax/ by default) are never recorded.
//
// Excludes returns the classes that no kept root reaches. Names are entry
// stems: the entry path without the .class suffix.
package keep
