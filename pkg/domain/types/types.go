package types

// Version is the vimpub application version
const Version = "v0.1.0"
