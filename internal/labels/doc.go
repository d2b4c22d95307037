// Package labels defines the label taxonomies handled by the clutter
// relabeling tool: the three-class clutter taxonomy written to storage and the
// RadarScenes source taxonomy it replaces.
//
// Both enumerations are persisted as integers. Reordering either one changes
// the meaning of stored data.
package labels
