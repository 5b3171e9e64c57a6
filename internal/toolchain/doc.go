// SPDX-License-Identifier: MPL-2.0

// Package toolchain locates a JDK installation and runs its tools.
//
// A Handle is created once by Locate and passed by pointer to every component
// that needs the JDK: module resolution uses it as the dependency inspector
// and module lister, and the image builder uses it to run jlink. Process
// creation goes through an injectable ExecCommandFunc so tests can replace the
// JDK with a helper process.
package toolchain
