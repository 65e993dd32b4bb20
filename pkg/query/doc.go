// Package query compiles flat request parameters into query descriptors.
//
// Parameter grammar
//
// --- FILTERS (per column listed in Schema.FilterAttrs) ---
//
// name            : equals            ".null." means IS NULL
// names           : in                comma separated
// names!          : not in            comma separated
// name!           : not equals        ".null." means IS NOT NULL
// name_like       : LIKE              '*' is rewritten to '%'
// name_notLike    : NOT LIKE          '*' is rewritten to '%'
// name_gt|gte|lt|lte : range bound
//
// --- LIST CONTROL ---
//
// startIndex      : offset, clamped to Pagination.MaxStartIndex
// maxResults      : limit, clamped to Pagination.MaxResultsLimit
// sort            : [-]field, field must be in SortConfig.Allow
// attrs           : comma separated projection, unknown columns dropped
// includes        : comma separated association names
// <as>.<filter>   : filters applied to the association joined as <as>
// showDelete      : disables the soft delete filter
// q               : free text, at most five keywords
// _searchs        : comma separated alias.column list restricting q
//
// --- STATISTICS ---
//
// dimensions      : comma separated names from Stats.Dimensions (or the dynamic map)
// metrics         : comma separated names from Stats.Metrics (or the dynamic map), required
// filters         : key==value[,key==value][;key==value...]   "," is OR, ";" is AND
//
// Free text search
//
// Every keyword must match at least one searchable column; within a keyword the
// columns are alternatives:
//
//	q=foo bar  =>  ((name LIKE '%foo%') OR (email LIKE '%foo%'))
//	               AND ((name LIKE '%bar%') OR (email LIKE '%bar%'))
//
// Identifiers in the generated SQL only ever come from a Schema. Request values
// are either bind arguments or single quote escaped literals.
package query
