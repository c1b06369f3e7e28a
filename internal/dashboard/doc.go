// Package dashboard renders health snapshots as a colored terminal
// table, repainting after every completed probe cycle.
package dashboard
