package topology

import "fmt"

// addressPool hands out sequential host addresses in the shared /24. The
// first suffix stays reserved, so the first node gets .2. Downstream
// consumers (start.sh argument lists, etcd peer configs) expect that offset;
// do not change it without changing them.
type addressPool struct {
	base string
	next int
}

func newAddressPool(base string) *addressPool {
	return &addressPool{base: base, next: 2}
}

// allocate returns the next address. No bound check against the /24 host
// range is performed at construction time.
func (p *addressPool) allocate() string {
	addr := fmt.Sprintf("%s.%d", p.base, p.next)
	p.next++
	return addr
}
