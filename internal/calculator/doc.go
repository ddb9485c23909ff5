// Package calculator manages independent tuition calculator instances.
//
// A Manager owns an append-only registry of instances and drives each one
// through the selection flow university → department → major → aid before
// requesting a price. Every instance owns its view state; handlers only touch
// the instance named by their index.
//
// Operations that talk to the tuition API return a tea.Cmd. The command's
// result message must be fed back through Manager.Update on the Bubble Tea
// event loop, which is the only place instance state changes.
package calculator
