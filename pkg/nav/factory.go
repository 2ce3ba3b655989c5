package nav

import "time"

// newAction stamps a fresh action with the current base speed.
func (n *Navigator) newAction(p Params) *Action {
	return &Action{
		Params:      p,
		followSpeed: n.speed,
	}
}

// Enqueue adds an action built from p at the back of the queue, or at the
// front when atFront is set.
func (n *Navigator) Enqueue(p Params, atFront bool) {
	a := n.newAction(p)
	if atFront {
		n.queue.PushFront(a)
	} else {
		n.queue.PushBack(a)
	}
	if n.queue.Front() == a {
		n.activate(a)
	}
}

// EnqueueForward queues straight travel of distanceMM millimetres.
func (n *Navigator) EnqueueForward(distanceMM float64, atFront bool) {
	n.Enqueue(Forward{DistanceMM: distanceMM}, atFront)
}

// EnqueueArcTurn queues an arc of radiusMM through angleDeg degrees.
// The radius must exceed the bot radius; this is not checked.
func (n *Navigator) EnqueueArcTurn(radiusMM, angleDeg float64, atFront bool) {
	n.Enqueue(ArcTurn{RadiusMM: radiusMM, AngleDeg: angleDeg}, atFront)
}

// EnqueueRotate queues an on-the-spot rotation of angleDeg degrees.
func (n *Navigator) EnqueueRotate(angleDeg float64, atFront bool) {
	n.Enqueue(Rotate{AngleDeg: angleDeg}, atFront)
}

// EnqueueStop queues a standstill lasting d.
func (n *Navigator) EnqueueStop(d time.Duration, atFront bool) {
	n.Enqueue(Stop{Duration: d}, atFront)
}

// EnqueuePen queues a pen movement.
func (n *Navigator) EnqueuePen(down bool, atFront bool) {
	n.Enqueue(Pen{Down: down}, atFront)
}
