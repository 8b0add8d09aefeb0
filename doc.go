// Package memarena provides the shared currency and helpers for the arena
// allocation subsystem: the MemBlock value passed between arenas and
// allocators, alignment utilities, aggregate statistics, and the debug
// validation helpers used throughout the module.
//
// The interesting parts live in the subpackages:
//   - arena holds the MemArena and VMemArena region allocators
//   - allocator holds the typed capability adapters consumed by containers
//   - span and vector are thin consumers of the allocator contract
package memarena
