// Package testsupport holds helpers shared by package tests: temp-dir rooted
// configs, file writers and a synthetic ICC profile builder.
package testsupport
