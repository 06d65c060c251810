// Package productform keeps the state of a product entry form and
// reconciles a local product list with the API.
package productform

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"inventory/pkg/productclient"
)

// ErrSaveFailed is returned by Submit for any failed request.
var ErrSaveFailed = errors.New("Failed to save product.")

// API is the subset of the product API the form calls.
type API interface {
	Create(ctx context.Context, in productclient.Input) (*productclient.Product, error)
	Update(ctx context.Context, id string, in productclient.Input) (*productclient.Product, error)
}

// Values are the controlled form inputs, as typed.
type Values struct {
	Name     string
	Quantity string
	Supplier string
}

func emptyValues() Values {
	return Values{Name: "", Quantity: "0", Supplier: ""}
}

// Form is a product form bound to a local list of products.
type Form struct {
	api API

	mu       sync.Mutex
	values   Values
	editing  *productclient.Product
	products []productclient.Product
}

// New creates a form over products. The slice is copied.
func New(api API, products []productclient.Product) *Form {
	return &Form{
		api:      api,
		values:   emptyValues(),
		products: append([]productclient.Product(nil), products...),
	}
}

// SetName binds the name input.
func (f *Form) SetName(v string) {
	f.mu.Lock()
	f.values.Name = v
	f.mu.Unlock()
}

// SetQuantity binds the quantity input.
func (f *Form) SetQuantity(v string) {
	f.mu.Lock()
	f.values.Quantity = v
	f.mu.Unlock()
}

// SetSupplier binds the supplier input.
func (f *Form) SetSupplier(v string) {
	f.mu.Lock()
	f.values.Supplier = v
	f.mu.Unlock()
}

// Values returns the current inputs.
func (f *Form) Values() Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// Editing returns the product being edited, or nil.
func (f *Form) Editing() *productclient.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.editing == nil {
		return nil
	}
	p := *f.editing
	return &p
}

// Products returns a copy of the local list.
func (f *Form) Products() []productclient.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]productclient.Product(nil), f.products...)
}

// Edit loads p into the inputs. A nil p resets the form.
func (f *Form) Edit(p *productclient.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if p == nil {
		f.resetLocked()
		return
	}

	product := *p
	f.editing = &product
	f.values = Values{
		Name:     p.Name,
		Quantity: strconv.Itoa(p.Quantity),
		Supplier: p.Supplier,
	}
}

// Cancel stops editing and resets the inputs.
func (f *Form) Cancel() {
	f.mu.Lock()
	f.resetLocked()
	f.mu.Unlock()
}

func (f *Form) resetLocked() {
	f.editing = nil
	f.values = emptyValues()
}

// Submit saves the inputs: an update of the edited product, or a create.
// On success the local list is reconciled and the form reset. On failure
// ErrSaveFailed is returned and the state is left unchanged.
func (f *Form) Submit(ctx context.Context) (*productclient.Product, error) {
	f.mu.Lock()
	values := f.values
	var editingID string
	if f.editing != nil {
		editingID = f.editing.ID
	}
	f.mu.Unlock()

	in := productclient.Input{
		Name:     values.Name,
		Quantity: values.Quantity,
		Supplier: values.Supplier,
	}

	var (
		saved *productclient.Product
		err   error
	)
	if editingID != "" {
		saved, err = f.api.Update(ctx, editingID, in)
	} else {
		saved, err = f.api.Create(ctx, in)
	}
	if err != nil || saved == nil {
		return nil, ErrSaveFailed
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if editingID != "" {
		for i := range f.products {
			if f.products[i].ID == saved.ID {
				f.products[i] = *saved
			}
		}
	} else {
		f.products = append(f.products, *saved)
	}
	f.resetLocked()

	result := *saved
	return &result, nil
}
