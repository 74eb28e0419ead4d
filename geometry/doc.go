// Package geometry provides the coordinate primitives used for position
// estimation: great-circle distance, componentwise interpolation, and
// point-to-segment projection in lat/lon space.
//
// Interpolation and projection are planar approximations. Route segments at
// city scale are short enough that the error is well below stop-placement
// accuracy; distance is always true haversine because cumulative route
// lengths span real geography.
package geometry
