// Package collide keeps the fine-grained pairs between compound bodies and
// large static meshes in sync with the current geometry.
//
// A broad phase hands over one (compound, mesh) pair; a
// [CompoundMeshHandler] then re-derives every step which compound children
// overlap which mesh elements, creating and releasing pooled [ElementPair]
// values as the overlap set changes.
//
// The handler queries the mesh hierarchy once with the compound's aggregate
// bound and matches the returned elements against every child by brute
// force. Compounds hold tens of children, so a tree-vs-tree traversal would
// not pay for its complexity.
package collide
