// Package countries serves the country choices of the declaration as a
// searchable JSON endpoint, for typeahead widgets on the nationality and
// residence selects.
//
// Queries match the English country name (accents folded, case ignored) or
// the alpha-2 code. An exact code match ranks first, then name prefixes, then
// any other substring match.
package countries
