// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the primary execution lifecycle: load a
// scene, index its mesh and water, grow every ridge and write the result.
// It is decoupled from any specific entrypoint like a CLI or server.
package app
