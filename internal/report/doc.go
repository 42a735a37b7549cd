// Package report turns a compression outcome into the values a front end
// shows: heading, sizes, reduction ratio and the download and reset
// affordances. It holds no state and performs no I/O.
package report
