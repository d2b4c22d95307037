// Package relabel derives clutter labels for one radar scan.
//
// Detections annotated with an object class become MovingObject. Each object
// detection opens a range/azimuth tolerance window around itself, and any
// moving detection inside that window is promoted to MovingObject as well.
// Remaining background detections are split by the motion test into Clutter
// (moving) and Stationary.
//
// Relabel walks the scan once, in scan order, writing into an output buffer
// that starts as a copy of the stored labels. Propagation from an object may
// overwrite a background detection that an earlier iteration already labelled
// Clutter, and a background detection promoted earlier is skipped when its own
// turn comes. The result therefore depends on the order of the buffer, not
// on a separate classification pass. This mirrors the in-place update of the
// original labelling tool and is kept as-is.
package relabel
