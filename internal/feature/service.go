package feature

import (
	"encoding/json"
	"fmt"

	"github.com/sandeepk26/orbis-backend/internal/apperror"
)

// Target identifies whose assigned_features document an operation mutates.
// OrganizationID nil means the global users table.
type Target struct {
	OrganizationID *uint
	UserID         uint
}

type Service interface {
	// Catalog management (superadmin surface)
	ListCatalog() ([]SystemFeature, error)
	CreateCatalogFeature(in SystemFeatureInput) (*SystemFeature, error)
	UpdateCatalogFeature(id uint, in SystemFeatureInput) (*SystemFeature, error)
	DeleteCatalogFeature(id uint) error

	// Resolution and mutation
	EffectiveFeatures(t Target) (Tree, error)
	AddFeature(t Target, systemKey string, modules []Module) (Tree, error)
	RemoveFeature(t Target, systemKey string) (Tree, error)
	ToggleFeature(t Target, systemKey string) (Tree, error)
	BulkAssignByUserType(orgID uint, userType string, tree Tree) (int64, error)

	// ValidateTree checks a candidate document against the catalog. Used by
	// organization registration before persisting selected_features.
	ValidateTree(tree Tree) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// ==============================
// Catalog
// ==============================

func (s *service) ListCatalog() ([]SystemFeature, error) {
	return s.repo.ListCatalog()
}

func (s *service) CreateCatalogFeature(in SystemFeatureInput) (*SystemFeature, error) {
	if len(in.Modules) == 0 {
		return nil, apperror.Validation("a feature needs at least one module")
	}
	for i, m := range in.Modules {
		if m.Key == "" || m.Name == "" || m.Description == "" {
			return nil, apperror.Validation(fmt.Sprintf("module #%d is missing key, name or description", i+1))
		}
	}

	if existing, err := s.repo.FindCatalogByKey(in.SystemKey); err == nil && existing != nil {
		return nil, apperror.Conflict("feature key already exists")
	} else if err != nil && !apperror.IsCode(err, apperror.CodeNotFound) {
		return nil, err
	}

	raw, err := json.Marshal(in.Modules)
	if err != nil {
		return nil, err
	}

	sf := &SystemFeature{
		SystemKey:   in.SystemKey,
		SystemName:  in.SystemName,
		Description: in.Description,
		Modules:     raw,
	}
	if err := s.repo.CreateCatalog(sf); err != nil {
		return nil, err
	}
	return sf, nil
}

func (s *service) UpdateCatalogFeature(id uint, in SystemFeatureInput) (*SystemFeature, error) {
	existing, err := s.repo.FindCatalogByKey(in.SystemKey)
	if err != nil {
		if !apperror.IsCode(err, apperror.CodeNotFound) {
			return nil, err
		}
	} else if existing.ID != id {
		return nil, apperror.Conflict("feature key already exists")
	}

	raw, err := json.Marshal(in.Modules)
	if err != nil {
		return nil, err
	}

	sf := &SystemFeature{
		ID:          id,
		SystemKey:   in.SystemKey,
		SystemName:  in.SystemName,
		Description: in.Description,
		Modules:     raw,
	}
	if err := s.repo.UpdateCatalog(sf); err != nil {
		return nil, err
	}
	return sf, nil
}

func (s *service) DeleteCatalogFeature(id uint) error {
	return s.repo.DeleteCatalog(id)
}

// ==============================
// Resolution
// ==============================

// EffectiveFeatures applies the override-or-inherit rule for the target user.
// Global users inherit from their institution when one is set; organization
// users always inherit from their organization.
func (s *service) EffectiveFeatures(t Target) (Tree, error) {
	if t.OrganizationID != nil {
		assignedDoc, err := s.repo.GetOrgUserFeatures(*t.OrganizationID, t.UserID)
		if err != nil {
			return nil, err
		}
		assigned := ParseTree(assignedDoc)
		if len(assigned) > 0 {
			return assigned, nil
		}
		orgDoc, err := s.repo.GetOrganizationFeatures(*t.OrganizationID)
		if err != nil {
			return nil, err
		}
		return Effective(assigned, ParseTree(orgDoc)), nil
	}

	assignedDoc, institutionID, err := s.repo.GetGlobalUserFeatures(t.UserID)
	if err != nil {
		return nil, err
	}
	assigned := ParseTree(assignedDoc)
	if len(assigned) > 0 || institutionID == nil {
		return Effective(assigned, nil), nil
	}
	orgDoc, err := s.repo.GetOrganizationFeatures(*institutionID)
	if err != nil {
		return nil, err
	}
	return Effective(assigned, ParseTree(orgDoc)), nil
}

// ==============================
// Mutations
// ==============================

func (s *service) AddFeature(t Target, systemKey string, modules []Module) (Tree, error) {
	catalog, err := s.repo.FindCatalogByKey(systemKey)
	if err != nil {
		if apperror.IsCode(err, apperror.CodeNotFound) {
			return nil, apperror.Validation("system " + systemKey + " is not in the feature catalog")
		}
		return nil, err
	}

	return s.mutate(t, func(tree Tree) (Tree, error) {
		return AddSystem(tree, catalog, modules)
	})
}

func (s *service) RemoveFeature(t Target, systemKey string) (Tree, error) {
	return s.mutate(t, func(tree Tree) (Tree, error) {
		return RemoveSystem(tree, systemKey)
	})
}

func (s *service) ToggleFeature(t Target, systemKey string) (Tree, error) {
	return s.mutate(t, func(tree Tree) (Tree, error) {
		return ToggleSystem(tree, systemKey)
	})
}

func (s *service) mutate(t Target, op func(Tree) (Tree, error)) (Tree, error) {
	var assigned Tree
	if t.OrganizationID != nil {
		doc, err := s.repo.GetOrgUserFeatures(*t.OrganizationID, t.UserID)
		if err != nil {
			return nil, err
		}
		assigned = ParseTree(doc)
	} else {
		doc, _, err := s.repo.GetGlobalUserFeatures(t.UserID)
		if err != nil {
			return nil, err
		}
		assigned = ParseTree(doc)
	}

	updated, err := op(assigned)
	if err != nil {
		return nil, err
	}

	doc, err := MarshalTree(updated)
	if err != nil {
		return nil, err
	}

	if t.OrganizationID != nil {
		err = s.repo.UpdateOrgUserFeatures(*t.OrganizationID, t.UserID, doc)
	} else {
		err = s.repo.UpdateGlobalUserFeatures(t.UserID, doc)
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// BulkAssignByUserType validates the tree and overwrites assigned_features
// for every organization user of the given type. Returns the affected count.
func (s *service) BulkAssignByUserType(orgID uint, userType string, tree Tree) (int64, error) {
	if userType == "" {
		return 0, apperror.Validation("user_type is required")
	}
	if err := s.ValidateTree(tree); err != nil {
		return 0, err
	}
	doc, err := MarshalTree(tree)
	if err != nil {
		return 0, err
	}
	return s.repo.BulkAssignOrgUsers(orgID, userType, doc)
}

func (s *service) ValidateTree(tree Tree) error {
	catalog, err := s.repo.ListCatalog()
	if err != nil {
		return err
	}
	keys := make(map[string]bool, len(catalog))
	for _, sf := range catalog {
		keys[sf.SystemKey] = true
	}
	return Validate(tree, keys)
}
