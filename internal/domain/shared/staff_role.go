package shared

import (
	"fmt"
	"strings"
)

// StaffRole is the job a worker is hired for. Roles are grouped by the
// business type that employs them.
type StaffRole string

const (
	// Hypermarket
	RoleCashier         StaffRole = "CASHIER"
	RoleStocker         StaffRole = "STOCKER"
	RoleFreshDepartment StaffRole = "FRESH_DEPARTMENT"
	RoleCustomerService StaffRole = "CUSTOMER_SERVICE"
	RoleFloorManager    StaffRole = "FLOOR_MANAGER"

	// Retail fashion
	RoleSalesAssociate      StaffRole = "SALES_ASSOCIATE"
	RoleVisualMerchandiser  StaffRole = "VISUAL_MERCHANDISER"
	RolePersonalStylist     StaffRole = "PERSONAL_STYLIST"
	RoleInventorySpecialist StaffRole = "INVENTORY_SPECIALIST"
	RoleStoreManager        StaffRole = "STORE_MANAGER"

	// Restaurant
	RoleLineCook          StaffRole = "LINE_COOK"
	RoleServer            StaffRole = "SERVER"
	RoleHost              StaffRole = "HOST"
	RoleSousChef          StaffRole = "SOUS_CHEF"
	RoleDishwasher        StaffRole = "DISHWASHER"
	RoleRestaurantManager StaffRole = "RESTAURANT_MANAGER"

	// Construction
	RoleCarpenter      StaffRole = "CARPENTER"
	RoleElectrician    StaffRole = "ELECTRICIAN"
	RolePlumber        StaffRole = "PLUMBER"
	RolePainter        StaffRole = "PAINTER"
	RoleLaborer        StaffRole = "LABORER"
	RoleProjectManager StaffRole = "PROJECT_MANAGER"

	// Taxi company
	RoleDriver             StaffRole = "DRIVER"
	RoleDispatcher         StaffRole = "DISPATCHER"
	RoleFleetMechanic      StaffRole = "FLEET_MECHANIC"
	RoleFleetManager       StaffRole = "FLEET_MANAGER"
	RoleCustomerServiceRep StaffRole = "CUSTOMER_SERVICE_REP"
)

var rolesByBusiness = map[BusinessType][]StaffRole{
	BusinessHypermarket:   {RoleCashier, RoleStocker, RoleFreshDepartment, RoleCustomerService, RoleFloorManager},
	BusinessRetailFashion: {RoleSalesAssociate, RoleVisualMerchandiser, RolePersonalStylist, RoleInventorySpecialist, RoleStoreManager},
	BusinessRestaurant:    {RoleLineCook, RoleServer, RoleHost, RoleSousChef, RoleDishwasher, RoleRestaurantManager},
	BusinessConstruction:  {RoleCarpenter, RoleElectrician, RolePlumber, RolePainter, RoleLaborer, RoleProjectManager},
	BusinessTaxiCompany:   {RoleDriver, RoleDispatcher, RoleFleetMechanic, RoleFleetManager, RoleCustomerServiceRep},
}

func (r StaffRole) String() string {
	return string(r)
}

// IsValid checks the role against the known role table
func (r StaffRole) IsValid() bool {
	_, ok := r.businessType()
	return ok
}

// BusinessType returns the business type that employs this role
func (r StaffRole) BusinessType() BusinessType {
	bt, _ := r.businessType()
	return bt
}

func (r StaffRole) businessType() (BusinessType, bool) {
	for bt, roles := range rolesByBusiness {
		for _, role := range roles {
			if role == r {
				return bt, true
			}
		}
	}
	return "", false
}

// RolesFor lists the roles a business type can hire, in declaration order
func RolesFor(bt BusinessType) []StaffRole {
	roles := rolesByBusiness[bt]
	out := make([]StaffRole, len(roles))
	copy(out, roles)
	return out
}

// ParseStaffRole parses a role name, accepting any case
func ParseStaffRole(s string) (StaffRole, error) {
	role := StaffRole(strings.ToUpper(strings.TrimSpace(s)))
	if !role.IsValid() {
		return "", fmt.Errorf("invalid staff role: %s", s)
	}
	return role, nil
}

// BusinessType identifies one of the business verticals
type BusinessType string

const (
	BusinessHypermarket   BusinessType = "HYPERMARKET"
	BusinessRetailFashion BusinessType = "RETAIL_FASHION"
	BusinessRestaurant    BusinessType = "RESTAURANT"
	BusinessConstruction  BusinessType = "CONSTRUCTION"
	BusinessTaxiCompany   BusinessType = "TAXI_COMPANY"
)

// AllBusinessTypes returns every business type in display order
func AllBusinessTypes() []BusinessType {
	return []BusinessType{
		BusinessHypermarket,
		BusinessRetailFashion,
		BusinessRestaurant,
		BusinessConstruction,
		BusinessTaxiCompany,
	}
}

func (b BusinessType) String() string {
	return string(b)
}

func (b BusinessType) IsValid() bool {
	_, ok := rolesByBusiness[b]
	return ok
}

// ParseBusinessType parses a business type name, accepting any case
func ParseBusinessType(s string) (BusinessType, error) {
	bt := BusinessType(strings.ToUpper(strings.TrimSpace(s)))
	if !bt.IsValid() {
		return "", fmt.Errorf("invalid business type: %s", s)
	}
	return bt, nil
}
