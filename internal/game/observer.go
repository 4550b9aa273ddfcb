package game

//go:generate mockgen -source=observer.go -destination=mocks/observer_mock.go -package=mocks

// View is a read-only copy of everything a renderer needs. Nothing in it
// aliases the Game's own storage.
type View struct {
	Board       Board       `json:"board"`
	Status      string      `json:"status"`
	Moves       []MoveEntry `json:"moves"`
	CurrentStep int         `json:"current_step"`
	Next        PlayerMark  `json:"next"`
	Winner      PlayerMark  `json:"winner,omitempty"`
	Draw        bool        `json:"draw"`
}

// Observer is told about every successful Move and JumpTo.
type Observer interface {
	StateChanged(view View)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(view View)

// StateChanged calls f(view).
func (f ObserverFunc) StateChanged(view View) {
	f(view)
}

// View builds the current read-only snapshot.
func (g *Game) View() View {
	return View{
		Board:       g.CurrentBoard(),
		Status:      g.StatusText(),
		Moves:       g.MoveList(),
		CurrentStep: g.currentStep,
		Next:        g.NextPlayer(),
		Winner:      g.Winner(),
		Draw:        g.IsDraw(),
	}
}

// Subscribe registers o and returns a function removing it again. Observers
// run synchronously, in subscription order, after the state has changed.
func (g *Game) Subscribe(o Observer) (unsubscribe func()) {
	if o == nil {
		panic(errNilObserver)
	}

	g.nextSubID++
	id := g.nextSubID
	g.observers = append(g.observers, subscription{id: id, observer: o})

	return func() {
		for i, sub := range g.observers {
			if sub.id == id {
				g.observers = append(g.observers[:i:i], g.observers[i+1:]...)
				return
			}
		}
	}
}

func (g *Game) notify() {
	if len(g.observers) == 0 {
		return
	}
	view := g.View()
	for _, sub := range g.observers {
		sub.observer.StateChanged(view)
	}
}
