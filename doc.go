// Copyright 2023 uhppoted@twyst.co.za. All rights reserved.
// Use of this source code is governed by an MIT-style license
// that can be found in the LICENSE file.

/*
Package uhppoted-sheets-tool is a command line tool for reading and updating a worksheet in a Google Sheets
spreadsheet, using an API key that is stored encrypted with a password.

uhppoted-sheets-tool supports the following commands:

  - encrypt, to encrypt an API key with a password and store it to a local file
  - decrypt, to recover an API key from an encrypted API key file
  - authorise, to authorise access to Google Sheets and store the encrypted credentials
  - info, to display the dimensions and column titles of a worksheet
  - get, to download a worksheet as a TSV file
  - update, to update worksheet cells as a single batch of row updates
  - sort, to sort the rows of a worksheet by a column
*/
package sheets
