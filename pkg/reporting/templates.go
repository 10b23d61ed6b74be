/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: templates.go
Description: HTML template for the Akaylee Instrument report. Provides a
clean, modern summary page with per-function tables of instrumented blocks
and their identity constants.
*/

package reporting

// reportTemplate is the HTML template for the instrumentation report
const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Report.Program}} - Akaylee Instrument Report</title>
    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        body {
            font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif;
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            min-height: 100vh;
            color: #333;
        }

        .container {
            max-width: 1100px;
            margin: 0 auto;
            padding: 20px;
        }

        .header {
            background: rgba(255, 255, 255, 0.95);
            border-radius: 20px;
            padding: 30px;
            margin-bottom: 30px;
            box-shadow: 0 8px 32px rgba(0, 0, 0, 0.1);
            text-align: center;
        }

        .header h1 {
            color: #4a5568;
            font-size: 2rem;
            margin-bottom: 10px;
            font-weight: 700;
        }

        .header p {
            color: #718096;
        }

        .summary {
            display: flex;
            gap: 20px;
            margin-bottom: 30px;
        }

        .summary .stat {
            flex: 1;
            background: rgba(255, 255, 255, 0.95);
            border-radius: 15px;
            padding: 20px;
            text-align: center;
            box-shadow: 0 4px 16px rgba(0, 0, 0, 0.1);
        }

        .stat .value {
            font-size: 1.8rem;
            font-weight: 700;
            color: #4a5568;
        }

        .stat .label {
            color: #718096;
            font-size: 0.9rem;
        }

        .function {
            background: rgba(255, 255, 255, 0.95);
            border-radius: 15px;
            padding: 20px;
            margin-bottom: 20px;
            box-shadow: 0 4px 16px rgba(0, 0, 0, 0.1);
        }

        .function h2 {
            color: #4a5568;
            font-size: 1.2rem;
            margin-bottom: 12px;
        }

        table {
            width: 100%;
            border-collapse: collapse;
        }

        th, td {
            text-align: left;
            padding: 8px 12px;
            border-bottom: 1px solid #e2e8f0;
            font-size: 0.9rem;
        }

        th {
            color: #718096;
            font-weight: 600;
        }

        td.id {
            font-family: monospace;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Akaylee Instrument Report</h1>
            <p>{{.Report.Program}} &mdash; session {{.Report.SessionID}} &mdash; generated {{.Report.GeneratedAt.Format "2006-01-02 15:04:05"}}</p>
        </div>
        <div class="summary">
            <div class="stat">
                <div class="value">{{.Report.InstrumentedBlocks}}</div>
                <div class="label">Instrumented Blocks</div>
            </div>
            <div class="stat">
                <div class="value">{{.Report.Mode}}</div>
                <div class="label">Mode</div>
            </div>
            <div class="stat">
                <div class="value">{{.Report.Ratio}}%</div>
                <div class="label">Ratio</div>
            </div>
            <div class="stat">
                <div class="value">{{len .Report.Functions}}</div>
                <div class="label">Functions Touched</div>
            </div>
        </div>
        {{range .Report.Functions}}
        <div class="function">
            <h2>{{.Name}}</h2>
            <table>
                <thead>
                    <tr><th>Block</th><th>Source</th><th>Identity</th></tr>
                </thead>
                <tbody>
                    {{range .Blocks}}
                    <tr>
                        <td>{{.Label}}</td>
                        <td>{{if .File}}{{.File}}:{{.Line}}{{else}}&mdash;{{end}}</td>
                        <td class="id">{{printf "%#x" .ID}}</td>
                    </tr>
                    {{end}}
                </tbody>
            </table>
        </div>
        {{end}}
    </div>
</body>
</html>
`
