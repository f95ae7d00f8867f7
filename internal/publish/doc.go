// Package publish streams grown ridges to a socket.io server as they finish.
package publish
