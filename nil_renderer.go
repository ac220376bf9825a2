package console

// nilRenderer discards every frame.
type nilRenderer struct{}

func (n nilRenderer) start()       {}
func (n nilRenderer) stop()        {}
func (n nilRenderer) render(Model) {}
