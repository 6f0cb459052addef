package game

// TaskID 延迟任务的标识，0 表示无效任务
type TaskID uint64

type scheduledTask struct {
	id       TaskID
	due      float64
	interval float64 // > 0 表示周期任务
	seq      uint64  // 调度顺序，同一时刻到期的任务按此排序
	fn       func()
}

// Scheduler 由帧时间驱动的可取消延迟任务队列
//
// 不使用 goroutine 和 sleep：调用方每帧调用 Update(dt) 推进时钟，
// 到期任务在同一线程内按到期时间、调度顺序依次执行。
// Reset 会丢弃所有任务并递增 epoch，重新开局后旧任务不会再触发。
type Scheduler struct {
	now    float64
	nextID TaskID
	seq    uint64
	epoch  uint64
	tasks  map[TaskID]*scheduledTask
}

// NewScheduler 创建空的调度器
func NewScheduler() *Scheduler {
	return &Scheduler{
		nextID: 1,
		tasks:  make(map[TaskID]*scheduledTask),
	}
}

// Now 调度器时钟（秒），只在 Update 中前进
func (s *Scheduler) Now() float64 {
	return s.now
}

// Epoch 当前纪元，每次 Reset 加一
func (s *Scheduler) Epoch() uint64 {
	return s.epoch
}

// After 在 delay 秒后执行一次 fn
// delay <= 0 时在下一次 Update 中执行
func (s *Scheduler) After(delay float64, fn func()) TaskID {
	if delay < 0 {
		delay = 0
	}
	return s.add(delay, 0, fn)
}

// Every 每隔 interval 秒执行一次 fn，直到被取消
// interval <= 0 时不调度，返回 0
func (s *Scheduler) Every(interval float64, fn func()) TaskID {
	if interval <= 0 {
		return 0
	}
	return s.add(interval, interval, fn)
}

func (s *Scheduler) add(delay, interval float64, fn func()) TaskID {
	if fn == nil {
		return 0
	}
	id := s.nextID
	s.nextID++
	s.tasks[id] = &scheduledTask{
		id:       id,
		due:      s.now + delay,
		interval: interval,
		seq:      s.seq,
		fn:       fn,
	}
	s.seq++
	return id
}

// Cancel 取消任务，返回任务是否仍在等待
func (s *Scheduler) Cancel(id TaskID) bool {
	if _, ok := s.tasks[id]; !ok {
		return false
	}
	delete(s.tasks, id)
	return true
}

// Pending 任务是否仍在等待执行
func (s *Scheduler) Pending(id TaskID) bool {
	_, ok := s.tasks[id]
	return ok
}

// Len 等待中的任务数量
func (s *Scheduler) Len() int {
	return len(s.tasks)
}

// Reset 丢弃所有任务、时钟归零并递增 epoch
func (s *Scheduler) Reset() {
	s.tasks = make(map[TaskID]*scheduledTask)
	s.now = 0
	s.epoch++
}

// Update 推进时钟并执行所有到期任务
//
// 在回调中新调度的任务不会在本次 Update 中执行；
// 周期任务在 dt 跨越多个周期时会补齐执行次数；
// 回调中调用 Reset 会立即结束本次 Update。
func (s *Scheduler) Update(dt float64) {
	if dt > 0 {
		s.now += dt
	}

	limit := s.seq
	epoch := s.epoch
	for {
		task := s.nextDue(limit)
		if task == nil {
			return
		}

		if task.interval > 0 {
			task.due += task.interval
		} else {
			delete(s.tasks, task.id)
		}
		task.fn()

		if s.epoch != epoch {
			return
		}
	}
}

// nextDue 找出最早到期且在本次 Update 开始前调度的任务
func (s *Scheduler) nextDue(limit uint64) *scheduledTask {
	var best *scheduledTask
	for _, t := range s.tasks {
		if t.seq >= limit || t.due > s.now {
			continue
		}
		if best == nil || t.due < best.due || (t.due == best.due && t.seq < best.seq) {
			best = t
		}
	}
	return best
}
