// Package remap rewrites symbol references according to relocation rules.
//
// Class names show up in several encodings inside an archive: slash separated
// internal names (org/example/Foo), field and method descriptors
// (Lorg/example/Foo;), generic signatures, dotted names inside string
// literals (org.example.Foo), array-for-name literals ([Lorg.example.Foo;)
// and resource paths (org/example/foo.properties). The Remapper exposes one
// entry point per encoding and funnels all of them through the same rule
// table so every encoding of one class ends up with the same new name.
//
// The grammar walkers in this package (Descriptor, MethodDescriptor and
// Signature) are independent of rules: they take a TypeMapper and call it for
// each embedded class name, reassembling everything else verbatim.
package remap
