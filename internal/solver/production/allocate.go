package production

import "math"

// TryToProduce asks the node for requested units per day and returns how
// much it actually delivered. Nodes needing input pull it from their
// suppliers in order. A node that cannot be fully supplied is marked
// exhausted and delivers nothing for the rest of the run.
func (p *ProducerData) TryToProduce(requested float64) float64 {
	if p.WastedCapacity > 0 {
		return 0
	}

	request := math.Min(p.TotalProductionCapacity-p.AllottedCapacity, requested)
	if request <= 0 {
		return 0
	}

	if !p.NeedsInput() {
		p.AllottedCapacity += request
		return request
	}

	obtained := 0.0
	for _, supplier := range p.Suppliers {
		if obtained >= request-AcceptableError {
			break
		}
		obtained += supplier.TryToProduce(request - obtained)
	}

	if obtained >= request-AcceptableError {
		p.AllottedCapacity += request
		return request
	}

	p.AllottedCapacity += obtained
	p.WastedCapacity = p.TotalProductionCapacity - p.AllottedCapacity
	return obtained
}

// UnusedCapacity is the capacity left after allocation, per day
func (p *ProducerData) UnusedCapacity() float64 {
	return p.TotalProductionCapacity - p.AllottedCapacity
}
