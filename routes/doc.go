// Package routes maintains the physical path geometry for each transit line.
//
// The Index owns one polyline per route id together with a cumulative
// arc-length table, and answers two questions: how far along the line is the
// point nearest to an arbitrary coordinate, and which coordinate lies at an
// arbitrary distance along the line. Tables are computed once per Load and
// never mutated afterwards, so reads need no coordination with each other.
package routes
