// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package registry

import (
	"errors"
	"time"

	"github.com/blinklabs-io/resi/chain"
	"github.com/blinklabs-io/resi/database/models"
	dbtypes "github.com/blinklabs-io/resi/database/types"
	"github.com/blinklabs-io/resi/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

const Kind chain.Kind = "registry"

// Serie is a time-boxed issuance epoch
type Serie struct {
	StartTime        time.Time      `json:"startTime"`
	EndTime          time.Time      `json:"endTime"`
	MaxSupply        *uint256.Int   `json:"maxSupply"`
	CurrentSupply    *uint256.Int   `json:"currentSupply"`
	ID               uint64         `json:"id"`
	NumberOfProjects uint64         `json:"numberOfProjects"`
	CurrentProjects  uint64         `json:"currentProjects"`
	Vault            common.Address `json:"vault"`
	Badge            common.Address `json:"badge"`
	Active           bool           `json:"active"`
}

type Project struct {
	SerieID uint64     `json:"serieId"`
	Name    types.Name `json:"name"`
	Active  bool       `json:"active"`
}

// Registry governs the series lifecycle, projects and per-series supply
type Registry struct {
	addr common.Address
}

func init() {
	chain.RegisterKind(
		Kind,
		func(_ *chain.Chain, addr common.Address) chain.Component {
			return &Registry{addr: addr}
		},
	)
}

func (r *Registry) Address() common.Address {
	return r.addr
}

func (r *Registry) Kind() chain.Kind {
	return Kind
}

func (r *Registry) state(call *chain.Call) (models.RegistryState, error) {
	state, err := call.DB().GetRegistryState(r.addr, call.Txn())
	if err != nil {
		if errors.Is(err, models.ErrStateNotFound) {
			return state, chain.ErrNotInitialized
		}
		return state, err
	}
	return state, nil
}

func (r *Registry) ownerState(call *chain.Call) (models.RegistryState, error) {
	state, err := r.state(call)
	if err != nil {
		return state, err
	}
	if common.BytesToAddress(state.Owner) != call.Sender() {
		return state, chain.ErrNotOwner
	}
	return state, nil
}

// Initialize makes the caller the registry owner
func (r *Registry) Initialize(call *chain.Call) error {
	if _, err := r.state(call); err == nil {
		return chain.ErrAlreadyInitialized
	} else if !errors.Is(err, chain.ErrNotInitialized) {
		return err
	}
	state := models.RegistryState{
		Address: r.addr.Bytes(),
		Owner:   call.Sender().Bytes(),
	}
	return call.DB().SetRegistryState(&state, call.Txn())
}

func (r *Registry) Owner(call *chain.Call) (common.Address, error) {
	state, err := r.state(call)
	if err != nil {
		return common.Address{}, err
	}
	return common.BytesToAddress(state.Owner), nil
}

func (r *Registry) TransferOwnership(call *chain.Call, newOwner common.Address) error {
	state, err := r.ownerState(call)
	if err != nil {
		return err
	}
	if newOwner == (common.Address{}) {
		return ErrInvalidAddress
	}
	state.Owner = newOwner.Bytes()
	if err := call.DB().SetRegistryState(&state, call.Txn()); err != nil {
		return err
	}
	call.Emit(
		r.addr,
		OwnershipTransferredEventType,
		OwnershipTransferredEvent{PreviousOwner: call.Sender(), NewOwner: newOwner},
	)
	return nil
}

// serieVault is the part of a vault the registry checks when binding it to a serie
type serieVault interface {
	SerieID(call *chain.Call) (uint64, error)
}

// CreateSerie opens the next serie. The previous serie, if any, must be closed
func (r *Registry) CreateSerie(
	call *chain.Call,
	start time.Time,
	end time.Time,
	numberOfProjects uint64,
	maxSupply *uint256.Int,
	vault common.Address,
) error {
	state, err := r.ownerState(call)
	if err != nil {
		return err
	}
	if state.ActiveSerie > 0 {
		current, err := r.getSerie(call, state.ActiveSerie)
		if err != nil {
			return err
		}
		if current.Active {
			return ErrCurrentSerieNotClosed
		}
	}
	if start.Unix() < call.Now().Unix() {
		return ErrInvalidStartTime
	}
	if !end.After(start) {
		return ErrInvalidEndTime
	}
	if numberOfProjects == 0 {
		return ErrInvalidNumberOfProjects
	}
	if maxSupply == nil || maxSupply.IsZero() {
		return ErrInvalidMaxSupply
	}
	if vault == (common.Address{}) {
		return ErrInvalidVault
	}
	if _, err := chain.Resolve[serieVault](call, vault); err != nil {
		return ErrInvalidVault
	}
	serieID := state.ActiveSerie + 1
	serie := models.Serie{
		Registry:         r.addr.Bytes(),
		SerieID:          serieID,
		Active:           true,
		StartTime:        start.Unix(),
		EndTime:          end.Unix(),
		NumberOfProjects: numberOfProjects,
		MaxSupply:        dbtypes.NewAmount(maxSupply),
		Vault:            vault.Bytes(),
	}
	if err := call.DB().SetSerie(&serie, call.Txn()); err != nil {
		return err
	}
	state.ActiveSerie = serieID
	if err := call.DB().SetRegistryState(&state, call.Txn()); err != nil {
		return err
	}
	call.Emit(
		r.addr,
		SerieCreatedEventType,
		SerieCreatedEvent{
			SerieID:          serieID,
			StartTime:        serie.StartTime,
			EndTime:          serie.EndTime,
			NumberOfProjects: numberOfProjects,
			MaxSupply:        new(uint256.Int).Set(maxSupply),
			Vault:            vault,
		},
	)
	return nil
}

// activeSerie returns the active serie, failing when none is active
func (r *Registry) activeSerie(
	call *chain.Call,
	state models.RegistryState,
	inactiveErr error,
) (models.Serie, error) {
	if state.ActiveSerie == 0 {
		return models.Serie{}, inactiveErr
	}
	serie, err := r.getSerie(call, state.ActiveSerie)
	if err != nil {
		return serie, err
	}
	if !serie.Active {
		return serie, inactiveErr
	}
	return serie, nil
}

func (r *Registry) getSerie(call *chain.Call, serieID uint64) (models.Serie, error) {
	return call.DB().GetSerie(r.addr, serieID, call.Txn())
}

func (r *Registry) AddProject(call *chain.Call, name types.Name) error {
	return r.AddProjects(call, []types.Name{name})
}

// AddProjects registers projects in the active serie. Either every name is
// added or none is
func (r *Registry) AddProjects(call *chain.Call, names []types.Name) error {
	state, err := r.ownerState(call)
	if err != nil {
		return err
	}
	serie, err := r.activeSerie(call, state, ErrSerieInactive)
	if err != nil {
		return err
	}
	for _, name := range names {
		if name.IsZero() {
			return ErrInvalidProjectName
		}
		project, err := call.DB().GetProject(r.addr, common.Hash(name), call.Txn())
		if err != nil && !errors.Is(err, models.ErrProjectNotFound) {
			return err
		}
		// A disabled project of this serie already holds a slot
		counted := err == nil && project.SerieID == serie.SerieID
		if counted && project.Active {
			return ErrProjectRegistered
		}
		if !counted && serie.CurrentProjects >= serie.NumberOfProjects {
			return ErrMaxProjectsReached
		}
		project.Registry = r.addr.Bytes()
		project.Name = name.Bytes()
		project.SerieID = serie.SerieID
		project.Active = true
		if err := call.DB().SetProject(&project, call.Txn()); err != nil {
			return err
		}
		if !counted {
			serie.CurrentProjects++
		}
		call.Emit(
			r.addr,
			ProjectAddedEventType,
			ProjectEvent{SerieID: serie.SerieID, Name: name},
		)
	}
	return call.DB().SetSerie(&serie, call.Txn())
}

// DisableProject marks a project inactive. Unknown and disabled projects are
// left as they are
func (r *Registry) DisableProject(call *chain.Call, name types.Name) error {
	if _, err := r.ownerState(call); err != nil {
		return err
	}
	project, err := call.DB().GetProject(r.addr, common.Hash(name), call.Txn())
	if err != nil {
		if errors.Is(err, models.ErrProjectNotFound) {
			return nil
		}
		return err
	}
	if project.Active {
		project.Active = false
		if err := call.DB().SetProject(&project, call.Txn()); err != nil {
			return err
		}
	}
	call.Emit(
		r.addr,
		ProjectDisabledEventType,
		ProjectEvent{SerieID: project.SerieID, Name: name},
	)
	return nil
}

// IsValidProject reports whether the project is active and belongs to the
// active serie, which must itself still be active
func (r *Registry) IsValidProject(call *chain.Call, name types.Name) (bool, error) {
	state, err := r.state(call)
	if err != nil {
		return false, err
	}
	serie, err := r.activeSerie(call, state, ErrSerieInactive)
	if err != nil {
		if errors.Is(err, ErrSerieInactive) {
			return false, nil
		}
		return false, err
	}
	return r.IsValidProjectInSerie(call, serie.SerieID, name)
}

// IsValidProjectInSerie reports whether the project is active in the given serie
func (r *Registry) IsValidProjectInSerie(
	call *chain.Call,
	serieID uint64,
	name types.Name,
) (bool, error) {
	project, err := call.DB().GetProject(r.addr, common.Hash(name), call.Txn())
	if err != nil {
		if errors.Is(err, models.ErrProjectNotFound) {
			return false, nil
		}
		return false, err
	}
	return project.Active && project.SerieID == serieID, nil
}

func (r *Registry) Project(call *chain.Call, name types.Name) (Project, error) {
	project, err := call.DB().GetProject(r.addr, common.Hash(name), call.Txn())
	if err != nil {
		return Project{}, err
	}
	return Project{
		Name:    types.NameFromBytes(project.Name),
		SerieID: project.SerieID,
		Active:  project.Active,
	}, nil
}

// Projects returns the projects registered for a serie
func (r *Registry) Projects(call *chain.Call, serieID uint64) ([]Project, error) {
	projects, err := call.DB().GetProjects(r.addr, serieID, call.Txn())
	if err != nil {
		return nil, err
	}
	ret := make([]Project, 0, len(projects))
	for _, project := range projects {
		ret = append(
			ret,
			Project{
				Name:    types.NameFromBytes(project.Name),
				SerieID: project.SerieID,
				Active:  project.Active,
			},
		)
	}
	return ret, nil
}

// RegisterSerieSBT binds a badge to the active serie
func (r *Registry) RegisterSerieSBT(call *chain.Call, badge common.Address) error {
	state, err := r.ownerState(call)
	if err != nil {
		return err
	}
	serie, err := r.activeSerie(call, state, ErrSerieNotActive)
	if err != nil {
		return err
	}
	if badge == (common.Address{}) {
		return ErrInvalidAddress
	}
	serie.Badge = badge.Bytes()
	if err := call.DB().SetSerie(&serie, call.Txn()); err != nil {
		return err
	}
	call.Emit(
		r.addr,
		SerieSBTRegisteredEventType,
		SerieSBTRegisteredEvent{SerieID: serie.SerieID, Badge: badge},
	)
	return nil
}

// GetSBTSerie returns the badge bound to the active serie, or the zero address
func (r *Registry) GetSBTSerie(call *chain.Call) (common.Address, error) {
	state, err := r.state(call)
	if err != nil {
		return common.Address{}, err
	}
	serie, err := r.activeSerie(call, state, ErrSerieNotActive)
	if err != nil {
		if errors.Is(err, ErrSerieNotActive) {
			return common.Address{}, nil
		}
		return common.Address{}, err
	}
	return common.BytesToAddress(serie.Badge), nil
}

// SerieBadge returns the badge bound to a serie, or the zero address
func (r *Registry) SerieBadge(call *chain.Call, serieID uint64) (common.Address, error) {
	serie, err := r.getSerie(call, serieID)
	if err != nil {
		if errors.Is(err, models.ErrSerieNotFound) {
			return common.Address{}, nil
		}
		return common.Address{}, err
	}
	return common.BytesToAddress(serie.Badge), nil
}

// SerieVault returns the vault of an existing serie
func (r *Registry) SerieVault(call *chain.Call, serieID uint64) (common.Address, error) {
	serie, err := r.getSerie(call, serieID)
	if err != nil {
		if errors.Is(err, models.ErrSerieNotFound) {
			return common.Address{}, ErrInvalidSerie
		}
		return common.Address{}, err
	}
	return common.BytesToAddress(serie.Vault), nil
}

func (r *Registry) SetResiToken(call *chain.Call, token common.Address) error {
	state, err := r.ownerState(call)
	if err != nil {
		return err
	}
	if token == (common.Address{}) {
		return ErrInvalidAddress
	}
	state.ResiToken = token.Bytes()
	if err := call.DB().SetRegistryState(&state, call.Txn()); err != nil {
		return err
	}
	call.Emit(r.addr, ResiTokenSetEventType, AddressSetEvent{Address: token})
	return nil
}

// SetTreasuryVault sets the treasury vault. It can only be set once
func (r *Registry) SetTreasuryVault(call *chain.Call, vault common.Address) error {
	state, err := r.ownerState(call)
	if err != nil {
		return err
	}
	if vault == (common.Address{}) {
		return ErrInvalidAddress
	}
	if common.BytesToAddress(state.TreasuryVault) != (common.Address{}) {
		return ErrTreasuryVaultSet
	}
	state.TreasuryVault = vault.Bytes()
	if err := call.DB().SetRegistryState(&state, call.Txn()); err != nil {
		return err
	}
	call.Emit(r.addr, TreasuryVaultSetEventType, AddressSetEvent{Address: vault})
	return nil
}

func (r *Registry) ResiToken(call *chain.Call) (common.Address, error) {
	state, err := r.state(call)
	if err != nil {
		return common.Address{}, err
	}
	return common.BytesToAddress(state.ResiToken), nil
}

func (r *Registry) TreasuryVault(call *chain.Call) (common.Address, error) {
	state, err := r.state(call)
	if err != nil {
		return common.Address{}, err
	}
	return common.BytesToAddress(state.TreasuryVault), nil
}

// onlyResiToken fails unless the caller is the bound token. An unbound token
// rejects every caller
func (r *Registry) onlyResiToken(call *chain.Call) (models.RegistryState, error) {
	state, err := r.state(call)
	if err != nil {
		return state, err
	}
	token := common.BytesToAddress(state.ResiToken)
	if token == (common.Address{}) || token != call.Sender() {
		return state, ErrOnlyResiToken
	}
	return state, nil
}

// IncreaseSerieSupply adds newly awarded reputation to an active serie
func (r *Registry) IncreaseSerieSupply(
	call *chain.Call,
	serieID uint64,
	amount *uint256.Int,
) error {
	if _, err := r.onlyResiToken(call); err != nil {
		return err
	}
	if amount == nil {
		return ErrInvalidAmount
	}
	serie, err := r.getSerie(call, serieID)
	if err != nil {
		if errors.Is(err, models.ErrSerieNotFound) {
			return ErrInvalidSerie
		}
		return err
	}
	if !serie.Active {
		return ErrSerieInactive
	}
	supply, overflow := new(uint256.Int).AddOverflow(&serie.CurrentSupply.Int, amount)
	if overflow || supply.Gt(&serie.MaxSupply.Int) {
		return ErrMaxSupplyReached
	}
	serie.CurrentSupply = dbtypes.NewAmount(supply)
	return call.DB().SetSerie(&serie, call.Txn())
}

// DecreaseSerieSupply removes burned reputation from a serie, active or closed
func (r *Registry) DecreaseSerieSupply(
	call *chain.Call,
	serieID uint64,
	amount *uint256.Int,
) error {
	if _, err := r.onlyResiToken(call); err != nil {
		return err
	}
	if amount == nil {
		return ErrInvalidAmount
	}
	serie, err := r.getSerie(call, serieID)
	if err != nil {
		if errors.Is(err, models.ErrSerieNotFound) {
			return ErrInvalidSerie
		}
		return err
	}
	supply, underflow := new(uint256.Int).SubOverflow(&serie.CurrentSupply.Int, amount)
	if underflow {
		return ErrSupplyUnderflow
	}
	serie.CurrentSupply = dbtypes.NewAmount(supply)
	return call.DB().SetSerie(&serie, call.Txn())
}

// CloseSerie ends the active serie. Closing is irreversible
func (r *Registry) CloseSerie(call *chain.Call) error {
	state, err := r.ownerState(call)
	if err != nil {
		return err
	}
	if state.ActiveSerie == 0 {
		return ErrSerieNotCreated
	}
	serie, err := r.getSerie(call, state.ActiveSerie)
	if err != nil {
		return err
	}
	if !serie.Active {
		return ErrSerieAlreadyClosed
	}
	serie.Active = false
	if err := call.DB().SetSerie(&serie, call.Txn()); err != nil {
		return err
	}
	call.Emit(r.addr, SerieClosedEventType, SerieClosedEvent{SerieID: serie.SerieID})
	return nil
}

// ActiveSerie returns the id of the last created serie, even once closed
func (r *Registry) ActiveSerie(call *chain.Call) (uint64, error) {
	state, err := r.state(call)
	if err != nil {
		return 0, err
	}
	return state.ActiveSerie, nil
}

// GetSerieState returns whether a serie is active and its current supply.
// Unknown series are reported as inactive with no supply
func (r *Registry) GetSerieState(
	call *chain.Call,
	serieID uint64,
) (bool, *uint256.Int, error) {
	serie, err := r.getSerie(call, serieID)
	if err != nil {
		if errors.Is(err, models.ErrSerieNotFound) {
			return false, new(uint256.Int), nil
		}
		return false, nil, err
	}
	return serie.Active, serie.CurrentSupply.Uint256(), nil
}

// GetSerieSupply returns the current supply of a serie
func (r *Registry) GetSerieSupply(call *chain.Call, serieID uint64) (*uint256.Int, error) {
	_, supply, err := r.GetSerieState(call, serieID)
	return supply, err
}

// Serie returns a serie by id
func (r *Registry) Serie(call *chain.Call, serieID uint64) (Serie, error) {
	serie, err := r.getSerie(call, serieID)
	if err != nil {
		return Serie{}, err
	}
	return serieFromModel(serie), nil
}

// Series returns every serie in creation order
func (r *Registry) Series(call *chain.Call) ([]Serie, error) {
	series, err := call.DB().GetSeries(r.addr, call.Txn())
	if err != nil {
		return nil, err
	}
	ret := make([]Serie, 0, len(series))
	for _, serie := range series {
		ret = append(ret, serieFromModel(serie))
	}
	return ret, nil
}

func serieFromModel(serie models.Serie) Serie {
	return Serie{
		ID:               serie.SerieID,
		Active:           serie.Active,
		StartTime:        time.Unix(serie.StartTime, 0).UTC(),
		EndTime:          time.Unix(serie.EndTime, 0).UTC(),
		NumberOfProjects: serie.NumberOfProjects,
		CurrentProjects:  serie.CurrentProjects,
		MaxSupply:        serie.MaxSupply.Uint256(),
		CurrentSupply:    serie.CurrentSupply.Uint256(),
		Vault:            common.BytesToAddress(serie.Vault),
		Badge:            common.BytesToAddress(serie.Badge),
	}
}
