package brokerpay

// Marshaller is anything that can be represented in binary
//
// Marshall may validate the data before serializing it and
// unset fields will cause an error
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent supports Marshal and Unmarshal
//
// This is separated from Marshal, as this almost always requires
// a pointer, and functions that only need to marshal bytes can
// use the Marshaller interface to access non-pointers as well
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}
