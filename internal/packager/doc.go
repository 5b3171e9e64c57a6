// SPDX-License-Identifier: MPL-2.0

// Package packager runs the jar2native pipeline for one archive.
//
// A run moves through validating, resolving, image-building, staging and
// bundling to done. Any stage may move the run to failed, after which the
// remaining stages are skipped. The archive is checked before a toolchain is
// located, so malformed inputs never start an external process.
package packager
