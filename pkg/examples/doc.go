// Package examples shows how an application drives a requester.
//
// RunDualRequester is the requester half of the "dual" demo link: it writes
// a settable node, lists the value nodes, follows a dynamic value and
// invokes an action, once successfully and once against a node that does
// not exist.
package examples
