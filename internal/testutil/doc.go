// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers include file fixtures (MustWriteFile, DirEntries), archive
// fixtures (WriteZip, WriteJar), a fake clock, and
// MockCommandRecorder, which replaces JDK tools with the test binary itself
// through the TestHelperProcess pattern.
package testutil
