package stagehand

import (
	"fmt"
)

// --- ID counter ---

// nodeIDCounter is a plain counter; node operations are single-threaded.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// --- Node ---

// Node is the fundamental scene graph element. A single flat struct is used for
// all node types; Type selects the drawing path.
//
// A parent exclusively owns its children. The parent pointer held by a child
// is informational and is cleared on detach.
type Node struct {
	// Identity
	ID   uint32
	Name string
	Type NodeType

	// Hierarchy
	parent   *Node
	children []*Node
	stage    *Director

	// Transform (local). Rotation is stored in degrees with cached radians.
	scaleX, scaleY float64
	rotation       float64
	radians        float64
	FlippedX       bool
	FlippedY       bool

	// Layout, one block per axis (see layout.go).
	h, v       axisLayout
	autoResize bool
	grid       *Grid

	// Visuals
	Fill        Color
	BorderColor Color
	BorderWidth float64
	Radius      float64
	Visible     bool
	Clip        bool
	opacity     float64
	texture     Texture

	// Label fields (NodeTypeLabel)
	text   string
	glyphs map[rune]Texture

	// Actions. autoRun starts the queued action when the node enters a stage.
	action  *ActionStep
	autoRun bool

	// Metadata
	UserData any
	EntityID uint32

	// Lifecycle and per-frame hooks (nil by default).
	OnEnter func()
	OnLeave func()
	OnFrame func(dt float64)
	update  func(n *Node, dt float64)

	// Input handlers. Interactive must be true for pointer hit testing.
	Interactive  bool
	OnClick      func(PointerContext)
	OnMouseBegin func(PointerContext)
	OnMouseMoved func(PointerContext)
	OnMouseEnded func(PointerContext)
	OnTouchBegin func(PointerContext)
	OnTouchMoved func(PointerContext)
	OnTouchEnded func(PointerContext)
	OnKeyDown    func(KeyContext)
	OnKeyUp      func(KeyContext)

	// Internal
	disposed  bool
	releasing bool
	updateBuf []*Node // reused snapshot buffer for Update
	visitBuf  []*Node // reused snapshot buffer for Visit
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.scaleX = 1
	n.scaleY = 1
	n.opacity = 1
	n.Visible = true
	n.autoResize = true
}

// NewNode creates a plain node with zero size and no visual representation.
func NewNode(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeContainer}
	nodeDefaults(n)
	return n
}

// NewSprite creates a node showing tex. The node is sized to the texture once
// it is ready.
func NewSprite(name string, tex Texture) *Node {
	n := NewNode(name)
	if tex != nil {
		_ = n.SetTexture(tex)
	}
	return n
}

// NewRect creates a filled rectangle node of the given size.
func NewRect(name string, w, h float64, fill Color) *Node {
	n := NewNode(name)
	n.Fill = fill
	n.SetSize(w, h)
	return n
}

// --- Accessors ---

// Parent returns the node's parent, or nil if it is detached.
func (n *Node) Parent() *Node {
	return n.parent
}

// Stage returns the director this node is attached to, or nil.
func (n *Node) Stage() *Director {
	return n.stage
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// Opacity returns the node's opacity in [0, 1].
func (n *Node) Opacity() float64 {
	return n.opacity
}

// SetOpacity sets the node's opacity, clamped to [0, 1].
func (n *Node) SetOpacity(a float64) {
	n.opacity = clamp01(a)
}

// Texture returns the node's texture, or nil.
func (n *Node) Texture() Texture {
	return n.texture
}

// SetTexture sets the texture drawn by the node. Unless autoResize has been
// disabled by a layout constraint, the node takes the texture's natural size,
// immediately if the texture is ready or once it becomes ready.
func (n *Node) SetTexture(tex Texture) error {
	if n.Type == NodeTypeLabel {
		return fmt.Errorf("stagehand: SetTexture on label %q: %w", n.Name, ErrDisallowed)
	}
	n.setTexture(tex)
	return nil
}

func (n *Node) setTexture(tex Texture) {
	n.texture = tex
	if tex == nil || !n.autoResize {
		return
	}
	if tex.Ready() {
		n.SetSize(float64(tex.Width()), float64(tex.Height()))
		return
	}
	tex.OnReady(func() {
		if n.texture == tex && n.autoResize && !n.disposed {
			n.SetSize(float64(tex.Width()), float64(tex.Height()))
		}
	})
}

// AutoResize reports whether the node follows its texture's natural size.
func (n *Node) AutoResize() bool {
	return n.autoResize
}

// SetAutoResize enables or disables sizing to the texture.
func (n *Node) SetAutoResize(on bool) {
	n.autoResize = on
}

// Grid returns the node's 9-slice grid, or nil.
func (n *Node) Grid() *Grid {
	return n.grid
}

// SetGrid sets the 9-slice insets used to draw the texture. Nil disables slicing.
func (n *Node) SetGrid(g *Grid) {
	n.grid = g
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// Returns ErrAlreadyParented, without mutating either tree, if child already
// has a parent, and ErrDisallowed if either node has been released. Panics if child is nil or is an ancestor of this node.
func (n *Node) AddChild(child *Node) error {
	return n.AddChildAt(child, -1)
}

// AddChildAt inserts child at index. Indexes outside [0, NumChildren) append.
// Same precondition checks as AddChild.
func (n *Node) AddChildAt(child *Node, index int) error {
	if child == nil {
		panic("stagehand: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if child.releasing || child.disposed || n.releasing || n.disposed {
		return fmt.Errorf("stagehand: add %q to %q: %w (released)", child.Name, n.Name, ErrDisallowed)
	}
	if child.parent != nil {
		return fmt.Errorf("stagehand: add %q to %q: %w (parent %q)",
			child.Name, n.Name, ErrAlreadyParented, child.parent.Name)
	}
	if isAncestor(child, n) {
		panic("stagehand: adding child would create a cycle")
	}

	if index >= 0 && index < len(n.children) {
		n.children = append(n.children, nil)
		copy(n.children[index+1:], n.children[index:])
		n.children[index] = child
	} else {
		n.children = append(n.children, child)
	}
	child.parent = n
	child.setStage(n.stage)

	child.resolve(axisH)
	child.resolve(axisV)

	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
	return nil
}

// RemoveChild detaches child from this node. No-op if child is not a child
// of this node.
func (n *Node) RemoveChild(child *Node) {
	if child == nil || child.parent != n {
		return
	}
	n.removeChildByPtr(child)
	child.detach()
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.parent == nil {
		return
	}
	n.parent.RemoveChild(n)
}

// RemoveAllChildren detaches all children. When recursive is true every
// removed descendant also has its running action halted and its own children
// cleared before it is detached. Children are NOT released.
func (n *Node) RemoveAllChildren(recursive bool) {
	children := n.children
	n.children = nil
	for _, child := range children {
		if recursive {
			child.stopAction()
			child.RemoveAllChildren(true)
		}
		child.detach()
	}
}

// Contains reports whether target is a descendant of this node.
func (n *Node) Contains(target *Node) bool {
	for _, child := range n.children {
		if child == target || child.Contains(target) {
			return true
		}
	}
	return false
}

// detach clears the parent and stage references of a node already removed
// from its parent's child list.
func (n *Node) detach() {
	n.parent = nil
	n.setStage(nil)
}

// setStage propagates the stage reference depth-first and fires the
// enter/leave notifications for every node whose stage changes.
func (n *Node) setStage(s *Director) {
	if n.stage == s {
		return
	}
	old := n.stage
	n.stage = s
	if old != nil && n.OnLeave != nil {
		n.OnLeave()
	}
	if s != nil && n.autoRun {
		n.autoRun = false
		s.engine.Start(n.Action())
	}
	if s != nil && n.OnEnter != nil {
		n.OnEnter()
	}
	for _, child := range n.children {
		child.setStage(s)
	}
}

// --- Release ---

// Release halts this node's action, detaches it and hands it to its stage's
// release pool; the node is disposed between frames. When recursive is true
// every descendant is released too, otherwise children are only detached.
// A node that is not on a stage is disposed immediately.
func (n *Node) Release(recursive bool) {
	if n.disposed || n.releasing {
		return
	}
	n.releasing = true
	n.stopAction()
	if recursive {
		for _, child := range append([]*Node(nil), n.children...) {
			child.Release(true)
		}
	} else {
		n.RemoveAllChildren(false)
	}
	stage := n.stage
	n.RemoveFromParent()
	if stage != nil {
		stage.deferRelease(n)
		return
	}
	n.dispose()
}

func (n *Node) dispose() {
	if n.disposed {
		return
	}
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.parent = nil
		child.stage = nil
	}
	n.children = nil
	n.updateBuf = nil
	n.visitBuf = nil
	n.parent = nil
	n.stage = nil
	n.action = nil
	n.texture = nil
	n.glyphs = nil
	n.UserData = nil
	n.OnEnter = nil
	n.OnLeave = nil
	n.OnFrame = nil
	n.update = nil
	n.OnClick = nil
	n.OnMouseBegin = nil
	n.OnMouseMoved = nil
	n.OnMouseEnded = nil
	n.OnTouchBegin = nil
	n.OnTouchMoved = nil
	n.OnTouchEnded = nil
	n.OnKeyDown = nil
	n.OnKeyUp = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Actions ---

// Action returns the node's current action step, creating a new idle one if
// the node has none or its last one has finished.
func (n *Node) Action() *ActionStep {
	if n.action == nil || n.action.State() == StepDone {
		n.action = NewActionStep(n)
	}
	return n.action
}

// RunAction starts the node's current action step on the node's stage engine.
// No-op if the node is not on a stage.
func (n *Node) RunAction() *ActionStep {
	step := n.Action()
	if n.stage != nil {
		n.stage.engine.Start(step)
	}
	return step
}

func (n *Node) stopAction() {
	if n.action != nil {
		n.action.Stop()
	}
}

// --- Traversal ---

// Update emits the per-frame notification, runs the node's own update hook and
// recurses into a snapshot of the children, so hooks may add, remove or
// reorder siblings without corrupting the traversal.
func (n *Node) Update(dt float64) {
	if n.disposed {
		return
	}
	if n.OnFrame != nil {
		n.OnFrame(dt)
	}
	if n.update != nil {
		n.update(n, dt)
	}
	if len(n.children) == 0 {
		return
	}
	snapshot := append(n.updateBuf[:0], n.children...)
	n.updateBuf = nil // a hook may re-enter Update on this node
	for _, child := range snapshot {
		child.Update(dt)
	}
	clear(snapshot)
	n.updateBuf = snapshot[:0]
}

// --- Helpers ---

// isAncestor reports whether candidate is node or one of its ancestors.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}
