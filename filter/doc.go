// Package filter evaluates structured filters against stored values.
//
// A filter is a map of field name to filter value; all fields must match.
// Filter values containing $-prefixed keys apply comparison operators to the
// stored sub-value ($eq, $ne, $gt, $gte, $lt, $lte); plain maps recurse
// structurally; sequences compare element-wise at identical length;
// anything else compares by equality.
package filter
