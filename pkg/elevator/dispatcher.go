package elevator

// Rule identifies which dispatch policy matched a call.
// Rule은 호출 배정에 사용된 정책을 나타냅니다.
type Rule int

const (
	RuleNone      Rule = iota
	RuleAtFloor        // 이미 해당 층에 정지한 엘리베이터
	RuleEnRoute        // 목표 층을 지나가는 중인 엘리베이터
	RuleNearest        // 가장 가까운 유휴 엘리베이터
	RuleHeading        // 호출 방향으로 이동 중인 엘리베이터
)

func (r Rule) String() string {
	return [...]string{"none", "at-floor", "en-route", "nearest-idle", "heading"}[r]
}

// assign picks the car that should serve an external call.
// cars must be ordered by ascending id; the first matching rule wins.
// It returns nil and RuleNone when the call has to stay queued.
// assign은 외부 호출을 처리할 엘리베이터를 선택합니다. 첫 번째로 일치하는 규칙이 우선합니다.
func assign(call *Call, cars []*car) (*car, Rule) {
	if c := stationaryAt(call.Floor, cars); c != nil {
		return c, RuleAtFloor
	}
	if c := passing(call.Floor, cars); c != nil {
		return c, RuleEnRoute
	}
	if c := nearestIdle(call.Floor, cars); c != nil {
		return c, RuleNearest
	}
	if c := heading(call.Floor, cars); c != nil {
		return c, RuleHeading
	}
	return nil, RuleNone
}

// stationaryAt finds a car standing at floor, idle cars first.
// A moving car has already left its Floor and never matches.
func stationaryAt(floor int, cars []*car) *car {
	var dwelling *car
	for _, c := range cars {
		if c.Floor != floor || c.Phase == PhaseMoving {
			continue
		}
		if c.IsIdle() {
			return c
		}
		if dwelling == nil {
			dwelling = c
		}
	}
	return dwelling
}

// passing finds a busy car whose sweep already spans floor, i.e. floor lies
// strictly between the car and its farthest destination in its direction.
func passing(floor int, cars []*car) *car {
	for _, c := range cars {
		if !c.Busy() || c.Direction == DirNone {
			continue
		}
		far, ok := c.farthest(c.Direction)
		if !ok {
			continue
		}
		switch c.Direction {
		case DirUp:
			if c.Floor < floor && floor < far {
				return c
			}
		case DirDown:
			if far < floor && floor < c.Floor {
				return c
			}
		}
	}
	return nil
}

func nearestIdle(floor int, cars []*car) *car {
	var best *car
	for _, c := range cars {
		if !c.IsIdle() {
			continue
		}
		if best == nil || abs(c.Floor-floor) < abs(best.Floor-floor) {
			best = c
		}
	}
	return best
}

// heading is the fallback: any busy car moving toward floor.
func heading(floor int, cars []*car) *car {
	for _, c := range cars {
		if !c.Busy() || c.Direction == DirNone {
			continue
		}
		if c.Direction == directionTo(c.Floor, floor) {
			return c
		}
	}
	return nil
}
