package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/api-sage/deposit-ledger/internal/domain"
	"github.com/google/uuid"
)

type CustomerRepository struct {
	mu        sync.RWMutex
	customers map[string]domain.Customer
}

func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{customers: make(map[string]domain.Customer)}
}

func (r *CustomerRepository) Create(_ context.Context, customer domain.Customer) (domain.Customer, error) {
	now := time.Now()
	customer.ID = uuid.NewString()
	customer.CreatedAt = now
	customer.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers[customer.ID] = customer

	return customer, nil
}

func (r *CustomerRepository) GetByID(_ context.Context, id string) (domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customer, ok := r.customers[id]
	if !ok {
		return domain.Customer{}, domain.ErrNotFound
	}
	return customer, nil
}

func (r *CustomerRepository) List(_ context.Context) ([]domain.Customer, error) {
	return r.filter(func(domain.Customer) bool { return true }), nil
}

func (r *CustomerRepository) SearchByLastName(_ context.Context, lastNamePart string) ([]domain.Customer, error) {
	needle := strings.ToLower(lastNamePart)
	return r.filter(func(c domain.Customer) bool {
		return strings.Contains(strings.ToLower(c.LastName), needle)
	}), nil
}

func (r *CustomerRepository) Exists(_ context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.customers[id]
	return ok, nil
}

func (r *CustomerRepository) filter(keep func(domain.Customer) bool) []domain.Customer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var customers []domain.Customer
	for _, customer := range r.customers {
		if keep(customer) {
			customers = append(customers, customer)
		}
	}

	sort.Slice(customers, func(i, j int) bool {
		if customers[i].LastName != customers[j].LastName {
			return customers[i].LastName < customers[j].LastName
		}
		return customers[i].FirstName < customers[j].FirstName
	})

	return customers
}
