// Package report renders command results for people and machines.
// It supports terminal (styled), text (plain), JSON and YAML output.
package report
