// Package index defines the extension index document and validates it.
//
// An index is a named collection of extensions. Each extension has a GitHub
// homepage and an ordered list of releases; each release has a version name,
// a main artifact URL, optional dependency and javadoc URLs, and the range of
// host application versions it is compatible with.
//
// # Raw and validated values
//
// Decoders produce the Raw* types ([RawIndex], [RawExtension], [RawRelease],
// [RawVersionRange]). The validators turn them into [Index], [Extension],
// [Release] and [VersionRange], which have no exported fields and cannot be
// modified. A validated value exists only if every rule held, so consumers do
// not need to re-check anything:
//
//	raw, err := index.DecodeJSON(data)
//	if err != nil {
//		return err
//	}
//	idx, err := index.ValidateIndex(raw)
//	if err != nil {
//		return err // *index.ValidationErrors
//	}
//
// Validating idx.Raw() again yields an equal Index.
//
// # Rules
//
//   - Release names and all range bounds follow the version grammar in
//     package version.
//   - Homepages and main URLs are Primary URLs, dependency and javadoc URLs
//     are Dependency URLs (package urlpolicy).
//   - A range's max is not below its min, and every excluded version lies in
//     [min, max]; bounds are inclusive.
//   - Extension names are unique within an index (exact, case-sensitive).
//   - An extension with no releases is accepted.
//
// # Errors
//
// Validators return *[ValidationErrors]. Each entry is a *[FieldError] with the
// full field path (e.g. "extensions[2].releases[0].version_range.excludes[1]"),
// the offending value, and a cause matching one of the Err* sentinels via
// errors.Is. By default every violation is reported; set Options.FailFast to
// stop at the first one.
//
// # Thread Safety
//
// Validators are safe for concurrent use and validated values are immutable.
package index
