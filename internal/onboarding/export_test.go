package onboarding

// SetRaw stores an arbitrary value, bypassing Status. Used to simulate a
// corrupted slot.
func (c *MemoryCache) SetRaw(sessionID, raw string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slots[sessionID] = raw
}
