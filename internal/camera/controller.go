package camera

// Mode is the controller state after an update.
type Mode int

const (
	Idle Mode = iota
	Translating
	Rotating
	PathFollowing
)

func (m Mode) String() string {
	switch m {
	case Translating:
		return "translating"
	case Rotating:
		return "rotating"
	case PathFollowing:
		return "path-following"
	}
	return "idle"
}

// PathEnd decides what happens when a path finishes.
type PathEnd int

const (
	// Hold pins the camera to the last keyframe until StopPath.
	Hold PathEnd = iota
	// Loop rewinds the path and plays it again.
	Loop
	// Release hands control back to input at the last keyframe.
	Release
)

// ParsePathEnd maps a config name to a PathEnd; unknown names hold.
func ParsePathEnd(name string) PathEnd {
	switch name {
	case "loop":
		return Loop
	case "release":
		return Release
	}
	return Hold
}

// Input is the level-triggered input state sampled once per tick.
type Input struct {
	Forward, Backward bool
	Left, Right       bool
	Up, Down          bool

	// Dragging is true while the rotate button is held; DX/DY are the cursor
	// delta in pixels since the previous tick.
	Dragging bool
	DX, DY   float32
}

func (in Input) moving() bool {
	return in.Forward || in.Backward || in.Left || in.Right || in.Up || in.Down
}

// Controller drives a Camera from input or a Path.
type Controller struct {
	Camera      *Camera
	Speed       float32 // world units per second
	Sensitivity float32 // radians per pixel
	End         PathEnd

	path      *Path
	following bool
	mode      Mode
}

// NewController creates a controller for cam.
func NewController(cam *Camera, speed, sensitivity float32) *Controller {
	return &Controller{Camera: cam, Speed: speed, Sensitivity: sensitivity}
}

// FollowPath starts p from its first keyframe.
func (c *Controller) FollowPath(p *Path) {
	if p == nil {
		return
	}
	p.Reset()
	c.path = p
	c.following = true
}

// StopPath returns control to input, leaving the camera where it is.
func (c *Controller) StopPath() {
	c.following = false
}

// Following reports whether a path currently drives the camera.
func (c *Controller) Following() bool {
	return c.following
}

// Path returns the last path handed to FollowPath.
func (c *Controller) Path() *Path {
	return c.path
}

// Mode returns the state chosen by the last Update.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Update advances the camera by dt seconds. A running path overrides input.
func (c *Controller) Update(in Input, dt float32) Mode {
	if dt < 0 {
		dt = 0
	}

	if c.following {
		k, finished := c.path.Advance(dt)
		c.Camera.Apply(k)
		if finished {
			switch c.End {
			case Loop:
				c.path.Reset()
			case Release:
				c.following = false
			}
		}
		c.mode = PathFollowing
		return c.mode
	}

	c.mode = Idle
	if in.moving() {
		c.translate(in, c.Speed*dt)
		c.mode = Translating
	}
	if in.Dragging && (in.DX != 0 || in.DY != 0) {
		c.Camera.Rotate(-in.DX*c.Sensitivity, -in.DY*c.Sensitivity)
		c.mode = Rotating
	}
	return c.mode
}

func (c *Controller) translate(in Input, dist float32) {
	moves := [...]struct {
		on bool
		m  Movement
	}{
		{in.Forward, Forward},
		{in.Backward, Backward},
		{in.Left, Left},
		{in.Right, Right},
		{in.Up, Ascend},
		{in.Down, Descend},
	}
	for _, mv := range moves {
		if mv.on {
			c.Camera.Move(mv.m, dist)
		}
	}
}
