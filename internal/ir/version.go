package ir

// Version is the finrel release reported by the CLI.
const Version = "0.1.0"
