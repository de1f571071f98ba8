package dto

import "github.com/jhoicas/saradnja-api/internal/domain/entity"

// FromUser mapea un usuario a su salida pública.
func FromUser(u *entity.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{ID: u.ID, FullName: u.FullName, Email: u.Email, Role: string(u.Role), Active: u.Active}
}

// FromCategory mapea una categoría.
func FromCategory(c *entity.Category) *CategoryResponse {
	if c == nil {
		return nil
	}
	return &CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description}
}

// FromProduct mapea un producto sin nombres asociados.
func FromProduct(p *entity.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	return &ProductResponse{
		ID:         p.ID,
		Code:       p.Code,
		Name:       p.Name,
		ImageRef:   p.ImageRef,
		Width:      p.Width,
		Height:     p.Height,
		Length:     p.Length,
		Price:      p.Price,
		CategoryID: p.CategoryID,
		SupplierID: p.SupplierID,
	}
}

// FromProductView mapea un producto con nombres de categoría y proveedor.
func FromProductView(v *entity.ProductView) *ProductResponse {
	if v == nil {
		return nil
	}
	out := FromProduct(&v.Product)
	out.CategoryName = v.CategoryName
	out.SupplierName = v.SupplierName
	return out
}

// FromProductViews mapea una lista; nunca devuelve nil para que el JSON sea [].
func FromProductViews(list []*entity.ProductView) []ProductResponse {
	out := make([]ProductResponse, 0, len(list))
	for _, v := range list {
		out = append(out, *FromProductView(v))
	}
	return out
}

// FromCollaboration mapea una colaboración.
func FromCollaboration(c *entity.Collaboration) *CollaborationResponse {
	if c == nil {
		return nil
	}
	return &CollaborationResponse{
		ID:         c.ID,
		ImporterID: c.ImporterID,
		SupplierID: c.SupplierID,
		StartedAt:  c.StartedAt,
		State:      string(c.State),
		Pending:    c.Pending(),
		Status:     c.Status(),
	}
}

// FromCollaborationView mapea una colaboración enriquecida.
func FromCollaborationView(v *entity.CollaborationView) *CollaborationResponse {
	if v == nil {
		return nil
	}
	out := FromCollaboration(&v.Collaboration)
	out.ImporterName, out.ImporterEmail = v.ImporterName, v.ImporterEmail
	out.SupplierName, out.SupplierEmail = v.SupplierName, v.SupplierEmail
	return out
}
