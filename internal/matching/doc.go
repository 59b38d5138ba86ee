// Package matching holds the rule-based triage and doctor assignment logic.
//
// Every function here is pure: the doctor registry is passed in as an
// ordered slice and nothing is read from or written to storage. Registry
// order is significant, the first eligible doctor always wins.
package matching
