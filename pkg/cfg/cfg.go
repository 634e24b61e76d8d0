package cfg

// Plot frame defaults, in mm. These match an EleksMaker A3-class machine
// mounted in landscape; override per run with the -width/-height flags.
var FrameWidth = 389.0
var FrameHeight = 274.0

// FeedRate is the pen-down drawing feed, mm/min.
var FeedRate = 5000.0

// TravelRate is the pen-up rapid feed, mm/min.
var TravelRate = 10000.0

// Spindle-style pen actuation. The servo interprets spindle speed as pen
// height, so "pen down" and "pen up" are M03 commands at different S values.
var PenDownCommand = "M03 S55"
var PenUpCommand = "M03 S35"

// Smoothness controls curve flattening: the maximum chord length, in
// document units, of the line segments a Bézier curve is broken into.
// Must be greater than 0.1.
var Smoothness = 0.2

// MergeDistance is the default threshold for joining paths whose endpoints
// nearly touch, in document units.
var MergeDistance = 1.0
