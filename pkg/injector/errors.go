package injector

import "errors"

var (
	// ErrArtifactRead indicates the build artifact is missing or unreadable,
	// typically because the injector ran before the build step finished.
	ErrArtifactRead = errors.New("build artifact unreadable")

	// ErrArtifactWrite indicates the mutated artifact could not be written
	// back in place.
	ErrArtifactWrite = errors.New("build artifact not writable")

	// ErrHeadMissing indicates the artifact contains no literal <head> tag
	// to anchor the meta tag on.
	ErrHeadMissing = errors.New("no <head> tag in artifact")
)
