// SPDX-License-Identifier: MPL-2.0

// Package platform holds the few OS-dependent naming rules jar2native needs.
package platform
