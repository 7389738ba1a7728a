// Package policy decides who may do what inside a circle and who may see
// which content. The rule functions are pure; Resolver loads the facts they
// need from storage and never writes.
package policy
