// Package rig defines the hinge hierarchy that drives a folding net.
// A rig is an arena of nodes addressed by NodeID. Every node has a fixed
// attachment point in its parent's frame; hinge nodes additionally rotate
// about a fixed axis through that point. Surfaces ride on nodes and
// inherit the accumulated transform, so folding a parent carries every
// descendant face along with it.
//
// Rigs are built from a declarative Spec. Hinge angles are never
// accumulated: Apply derives every angle from the fold value alone.
package rig
