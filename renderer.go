package console

// renderer is the interface for console renderers.
type renderer interface {
	// Start the renderer.
	start()

	// Stop the renderer, flushing the last frame.
	stop()

	// Write a frame to the renderer. The renderer can write this data to
	// output at its discretion.
	render(Model)
}
