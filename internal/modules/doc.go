// SPDX-License-Identifier: MPL-2.0

// Package modules resolves the set of Java platform modules an application
// archive needs at run time.
//
// Resolution drives the JDK's dependency inspector through an ordered chain of
// strategies: an exact "print module deps" run first, then a parse of the
// per-dependency listing, and finally a fixed conservative default when the
// inspector cannot be used at all. Caller-supplied extra modules are merged
// into whatever the chain produced. Web archives are extracted to a scratch
// directory that lives only for the duration of one Resolve call.
package modules
