package identity

import (
	"sort"
	"strings"

	"github.com/storeadmin/backend/internal/domain/shared"
)

// Resources guarded by permissions
const (
	ResourceCustomer   = "customer"
	ResourceSupplier   = "supplier"
	ResourceWarehouse  = "warehouse"
	ResourceUnit       = "unit"
	ResourceBrand      = "brand"
	ResourceCategory   = "category"
	ResourceProduct    = "product"
	ResourceStock      = "stock"
	ResourceAdjustment = "adjustment"
	ResourceTransfer   = "transfer"
	ResourceSale       = "sale"
	ResourceUser       = "user"
	ResourceRole       = "role"
)

// Actions a permission may grant
const (
	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

var (
	allResources = []string{
		ResourceCustomer, ResourceSupplier, ResourceWarehouse,
		ResourceUnit, ResourceBrand, ResourceCategory, ResourceProduct,
		ResourceStock, ResourceAdjustment, ResourceTransfer, ResourceSale,
		ResourceUser, ResourceRole,
	}
	allActions = []string{ActionRead, ActionCreate, ActionUpdate, ActionDelete}
)

// Permission is a "resource:action" grant
type Permission struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

// Code returns the "resource:action" form
func (p Permission) Code() string {
	return p.Resource + ":" + p.Action
}

// ParsePermission validates a permission code against the catalog
func ParsePermission(code string) (Permission, error) {
	parts := strings.SplitN(strings.TrimSpace(code), ":", 2)
	if len(parts) != 2 {
		return Permission{}, shared.NewDomainError("INVALID_PERMISSION", "Permission must be in resource:action format")
	}
	p := Permission{Resource: strings.ToLower(parts[0]), Action: strings.ToLower(parts[1])}
	if !contains(allResources, p.Resource) || !contains(allActions, p.Action) {
		return Permission{}, shared.NewDomainError("INVALID_PERMISSION", "Unknown permission: "+code)
	}
	return p, nil
}

// AllPermissions returns the full permission catalog
func AllPermissions() []Permission {
	out := make([]Permission, 0, len(allResources)*len(allActions))
	for _, r := range allResources {
		for _, a := range allActions {
			out = append(out, Permission{Resource: r, Action: a})
		}
	}
	return out
}

// AllPermissionCodes returns every permission code, sorted
func AllPermissionCodes() []string {
	perms := AllPermissions()
	codes := make([]string, len(perms))
	for i, p := range perms {
		codes[i] = p.Code()
	}
	sort.Strings(codes)
	return codes
}

// NormalizePermissionCodes validates, deduplicates and sorts codes
func NormalizePermissionCodes(codes []string) ([]string, error) {
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		p, err := ParsePermission(c)
		if err != nil {
			return nil, err
		}
		set[p.Code()] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
