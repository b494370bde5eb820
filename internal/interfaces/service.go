package interfaces

// Service interface defines the methods that every kind of interface exposed
// by the daemon, whether gRPC or REST, must be compliant with.
type Service interface {
	Start() error
	Stop()
	// Addr returns the address the interface is listening on once started.
	Addr() string
}
