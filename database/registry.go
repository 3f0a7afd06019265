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

package database

import (
	"github.com/blinklabs-io/resi/database/models"
	"github.com/ethereum/go-ethereum/common"
)

func (d *Database) GetRegistryState(
	addr common.Address,
	txn *Txn,
) (models.RegistryState, error) {
	return findOne[models.RegistryState](
		d.metadataDB(txn),
		models.ErrStateNotFound,
		"address = ?",
		addr.Bytes(),
	)
}

func (d *Database) SetRegistryState(
	state *models.RegistryState,
	txn *Txn,
) error {
	return save(d.metadataDB(txn), state)
}

func (d *Database) GetSerie(
	registry common.Address,
	serieID uint64,
	txn *Txn,
) (models.Serie, error) {
	return findOne[models.Serie](
		d.metadataDB(txn),
		models.ErrSerieNotFound,
		"registry = ? AND serie_id = ?",
		registry.Bytes(),
		serieID,
	)
}

// GetSeries returns all series of a registry ordered by id
func (d *Database) GetSeries(
	registry common.Address,
	txn *Txn,
) ([]models.Serie, error) {
	var ret []models.Serie
	result := d.metadataDB(txn).
		Where("registry = ?", registry.Bytes()).
		Order("serie_id").
		Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

func (d *Database) SetSerie(serie *models.Serie, txn *Txn) error {
	return save(d.metadataDB(txn), serie)
}

func (d *Database) GetProject(
	registry common.Address,
	name common.Hash,
	txn *Txn,
) (models.Project, error) {
	return findOne[models.Project](
		d.metadataDB(txn),
		models.ErrProjectNotFound,
		"registry = ? AND name = ?",
		registry.Bytes(),
		name.Bytes(),
	)
}

// GetProjects returns the projects registered for a series
func (d *Database) GetProjects(
	registry common.Address,
	serieID uint64,
	txn *Txn,
) ([]models.Project, error) {
	var ret []models.Project
	result := d.metadataDB(txn).
		Where("registry = ? AND serie_id = ?", registry.Bytes(), serieID).
		Order("id").
		Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

func (d *Database) SetProject(project *models.Project, txn *Txn) error {
	return save(d.metadataDB(txn), project)
}
