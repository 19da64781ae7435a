package world

// PlayerController is the controller attached to player entities. Behavior
// comes from the network session driving the entity; the controller only
// carries the player's persistent identity.
type PlayerController struct {
	name    string
	account string
}

func NewPlayerController(name, account string) *PlayerController {
	return &PlayerController{name: name, account: account}
}

func (c *PlayerController) Category() Category { return CategoryPlayer }
func (c *PlayerController) FinalizeTick()      {}

func (c *PlayerController) Name() string    { return c.name }
func (c *PlayerController) Account() string { return c.account }
