// SPDX-License-Identifier: MPL-2.0

// Package archive validates and reads Java application archives.
//
// Two layouts are supported: plain JARs, which must name an entry point via
// the Main-Class attribute of META-INF/MANIFEST.MF, and WARs, which follow the
// WEB-INF/classes + WEB-INF/lib convention and need no entry point. Archives
// are read with archive/zip directly; validation never shells out to the JDK.
package archive
