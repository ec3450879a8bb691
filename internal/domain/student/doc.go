// Package student models a student of the Student Directory.
//
// It defines the Student entity, its validation rules and the repository
// interface. Repository implementations live in infrastructure/persistence
// (memory and postgres).
//
// Other services see students only through the directory's public HTTP
// API; for them a Student is a snapshot fetched over the network, not a
// record from their own storage.
package student
