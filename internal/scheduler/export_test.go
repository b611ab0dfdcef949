package scheduler

// WaitPush blocks until the in-flight push, if any, has finished.
func (s *Scheduler) WaitPush() {
	s.mu.Lock()
	p := s.inflight
	s.mu.Unlock()
	if p != nil {
		<-p.done
	}
}
