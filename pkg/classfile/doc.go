// Package classfile reads and rewrites the symbolic references inside JVM
// class files.
//
// A class is parsed into its constant pool plus the raw bytes that follow it.
// Rewriting never moves existing bytes: a replacement name is appended to the
// constant pool (or an equal existing entry is reused) and the u2 index at
// each reference site is repointed. Method bodies keep their length, so
// branch offsets and stack map frames stay valid.
//
// Reference sites visited:
//
//   - Class, String, NameAndType and MethodType constants
//   - Package constants, mapped through the package's package-info name
//   - field and method descriptors
//   - Signature attributes on classes, fields, methods and record components
//   - LocalVariableTable and LocalVariableTypeTable entries
//   - annotations, parameter annotations, type annotations and defaults
//   - Record component descriptors
//   - InnerClasses inner names, when the inner class was renamed
package classfile
