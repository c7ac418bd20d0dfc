// Package resources rewrites class names that appear inside non-class
// entries: service provider descriptors under META-INF/services and XML
// files such as Spring or plugin descriptors.
package resources
